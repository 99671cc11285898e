package nameseed

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seed-labs/nameseed/common"
	"github.com/seed-labs/nameseed/contenthash"
	"github.com/seed-labs/nameseed/schema"
)

func (s *Nameseed) runAPI(port string) {
	r := s.engine
	r.Use(common.CORSMiddleware())
	if param := s.config.GetParam(); param.RateLimitPerMinute > 0 {
		r.Use(common.LimiterMiddleware(param.RateLimitPerMinute, "M", s.config.GetIPWhiteList()))
	}
	s.registerRoutes(r)

	common.NewMetricServer()

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (s *Nameseed) registerRoutes(r *gin.Engine) {
	v1 := r.Group("/")
	{
		v1.GET("/info", s.getInfo)

		v1.POST("/name", s.upsertName)
		v1.POST("/names", s.batchUpsertNames)
		v1.GET("/name/:domain/:name", s.getName)
		v1.DELETE("/name/:domain/:name", s.deleteName)

		v1.GET("/domain/:domain", s.getDomain)
		v1.PUT("/domain/:domain", s.updateDomain)
	}
}

func (s *Nameseed) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "nameseed",
		"network": s.network,
	})
}

func (s *Nameseed) upsertName(c *gin.Context) {
	req := schema.UpsertNameReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}

	domain, ok := s.authorizedDomain(c, req.Domain, req.Network)
	if !ok {
		return
	}

	res, err := s.UpsertName(domain, req)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Nameseed) batchUpsertNames(c *gin.Context) {
	req := schema.BatchNameReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}

	domain, ok := s.authorizedDomain(c, req.Domain, req.Network)
	if !ok {
		return
	}

	res, err := s.BatchUpsert(domain, req)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Nameseed) deleteName(c *gin.Context) {
	domain, ok := s.authorizedDomain(c, c.Param("domain"), c.Query("network"))
	if !ok {
		return
	}

	if err := s.DeleteName(domain, c.Param("name")); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Nameseed) getName(c *gin.Context) {
	domain, err := s.resolveDomain(c.Param("domain"), c.Query("network"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	res, err := s.GetName(domain, c.Param("name"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Nameseed) getDomain(c *gin.Context) {
	domain, err := s.resolveDomain(c.Param("domain"), c.Query("network"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	count, err := s.wdb.CountSubdomains(domain.ID)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespDomain{Domain: domain, SubdomainCount: count})
}

func (s *Nameseed) updateDomain(c *gin.Context) {
	req := schema.UpsertNameReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}

	domain, ok := s.authorizedDomain(c, c.Param("domain"), req.Network)
	if !ok {
		return
	}

	res, err := s.UpdateDomainSettings(domain, req)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// authorizedDomain resolves the domain row and checks the request
// credential against it. On failure it has already written the response.
func (s *Nameseed) authorizedDomain(c *gin.Context, rawDomain, network string) (schema.Domain, bool) {
	domain, err := s.resolveDomain(rawDomain, network)
	if err != nil {
		respondServiceErr(c, err)
		return schema.Domain{}, false
	}

	cred := Credential{
		Key:      c.GetHeader("X-API-KEY"),
		Identity: c.GetHeader("X-Identity"),
	}
	if err := s.Authorize(cred, domain); err != nil {
		c.JSON(http.StatusUnauthorized, schema.RespErr{Err: err.Error()})
		return schema.Domain{}, false
	}
	return domain, true
}

func (s *Nameseed) resolveDomain(rawDomain, network string) (schema.Domain, error) {
	name, err := NormalizeName(rawDomain)
	if err != nil {
		return schema.Domain{}, err
	}
	if network == "" {
		network = s.network
	}
	return s.getDomainCached(name, network)
}

func respondServiceErr(c *gin.Context, err error) {
	var batchErr *BatchError
	if errors.As(err, &batchErr) {
		c.JSON(http.StatusBadRequest, schema.RespBatchErr{
			Err:            schema.ErrBatchFailed.Error(),
			ItemErrors:     batchErr.ItemErrors,
			TotalAttempted: batchErr.TotalAttempted,
		})
		return
	}

	switch err {
	case schema.ErrInvalidName, schema.ErrBatchTooLarge,
		contenthash.ErrInvalid, contenthash.ErrUnknownCodec:
		errorResponse(c, err.Error())
	case schema.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, schema.RespErr{Err: err.Error()})
	case schema.ErrQuotaExceeded, schema.ErrQuotaWouldExceed:
		c.JSON(http.StatusForbidden, schema.RespErr{Err: err.Error()})
	case schema.ErrDomainNotFound, schema.ErrNameNotFound:
		c.JSON(http.StatusNotFound, schema.RespErr{Err: err.Error()})
	default:
		internalErrorResponse(c, err.Error())
	}
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
