package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/argus-dev/argus/internal/models"
)

// Client is a thin wrapper over the Argus control surface.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)

	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}

	return nil
}

func (c *Client) Login(password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{"password": password}, &out)
	return out.Token, err
}

func (c *Client) Health() error {
	return c.do(http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) CreateAccount(req interface{}) error {
	return c.do(http.MethodPost, "/api/accounts", req, nil)
}

func (c *Client) CreateJob(req interface{}) error {
	return c.do(http.MethodPost, "/api/jobs", req, nil)
}

func (c *Client) CreateAlert(req interface{}) error {
	return c.do(http.MethodPost, "/api/alerts", req, nil)
}

func (c *Client) CreateSilence(req interface{}) error {
	return c.do(http.MethodPost, "/api/silences", req, nil)
}

func (c *Client) StartAlert(name string) error {
	return c.do(http.MethodPost, "/api/alerts/"+name+"/start", nil, nil)
}

func (c *Client) PauseAlert(name string) error {
	return c.do(http.MethodPost, "/api/alerts/"+name+"/pause", nil, nil)
}

func (c *Client) StopAlert(name string) error {
	return c.do(http.MethodPost, "/api/alerts/"+name+"/stop", nil, nil)
}

func (c *Client) ListAlerts() ([]models.Alert, error) {
	var out struct {
		Alerts []models.Alert `json:"alerts"`
	}
	err := c.do(http.MethodGet, "/api/alerts", nil, &out)
	return out.Alerts, err
}

func (c *Client) ListSilences() ([]models.SilencePeriod, bool, error) {
	var out struct {
		Silences []models.SilencePeriod `json:"silences"`
		Silenced bool                   `json:"silenced"`
	}
	err := c.do(http.MethodGet, "/api/silences", nil, &out)
	return out.Silences, out.Silenced, err
}
