package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/seed-labs/nameseed/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

type Client struct {
	SCli *gentleman.Client

	apiKey   string
	identity string
}

func New(nameseedUrl string, apiKey string) *Client {
	return &Client{
		SCli:   gentleman.New().URL(nameseedUrl),
		apiKey: apiKey,
	}
}

// WithIdentity switches the client to the admin-identity credential.
func (c *Client) WithIdentity(identity string) *Client {
	c.identity = identity
	return c
}

func (c *Client) UpsertName(req schema.UpsertNameReq) (res schema.RespUpsert, err error) {
	sreq := c.SCli.Post().AddPath("/name").Use(body.JSON(req))
	c.setCredential(sreq)
	resp, err := sreq.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return res, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&res)
	return
}

func (c *Client) BatchUpsertNames(req schema.BatchNameReq) (res schema.RespBatch, err error) {
	sreq := c.SCli.Post().AddPath("/names").Use(body.JSON(req))
	c.setCredential(sreq)
	resp, err := sreq.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		// a failed batch carries the per-item error report
		batchErr := schema.RespBatchErr{}
		if jsErr := json.Unmarshal(resp.Bytes(), &batchErr); jsErr == nil && len(batchErr.ItemErrors) > 0 {
			return res, batchErr
		}
		return res, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&res)
	return
}

func (c *Client) GetName(domain, name string) (res schema.RespName, err error) {
	resp, err := c.SCli.Get().AddPath(fmt.Sprintf("/name/%s/%s", domain, name)).Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return res, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&res)
	return
}

func (c *Client) DeleteName(domain, name string) error {
	sreq := c.SCli.Delete().AddPath(fmt.Sprintf("/name/%s/%s", domain, name))
	c.setCredential(sreq)
	resp, err := sreq.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return decodeRespErr(resp.Bytes())
	}
	return nil
}

func (c *Client) GetDomain(domain string) (res schema.RespDomain, err error) {
	resp, err := c.SCli.Get().AddPath("/domain/" + domain).Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return res, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&res)
	return
}

func (c *Client) setCredential(req *gentleman.Request) {
	if c.apiKey != "" {
		req.SetHeader("X-API-KEY", c.apiKey)
	}
	if c.identity != "" {
		req.SetHeader("X-Identity", c.identity)
	}
}

func decodeRespErr(errMsg []byte) error {
	resErr := schema.RespErr{}
	if err := json.Unmarshal(errMsg, &resErr); err != nil {
		return fmt.Errorf(string(errMsg))
	}
	return resErr
}
