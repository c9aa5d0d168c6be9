// Package qbit provides a minimal client for the qBittorrent Web API.
// The search browser uses it to hand magnet links to a running
// qBittorrent instance.
package qbit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client interfaces with qBittorrent Web API
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	loggedIn   bool
}

// NewClient creates a new qBittorrent API client for http://host:port.
func NewClient(host string, port int, username, password string) *Client {
	return NewClientURL(fmt.Sprintf("http://%s:%d", host, port), username, password)
}

// NewClientURL creates a client for an explicit Web UI base URL.
func NewClientURL(baseURL, username, password string) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// Login authenticates with the qBittorrent API
func (c *Client) Login(ctx context.Context) error {
	data := url.Values{}
	data.Set("username", c.username)
	data.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/auth/login", strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to qBittorrent: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Ok." {
		return fmt.Errorf("login failed: %s", string(body))
	}

	c.loggedIn = true
	return nil
}

// IsConnected checks if we can reach qBittorrent
func (c *Client) IsConnected(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/app/version", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// AddMagnet adds a torrent via magnet link, logging in first if needed.
func (c *Client) AddMagnet(ctx context.Context, magnet string, savePath string) error {
	if !strings.HasPrefix(magnet, "magnet:") {
		return fmt.Errorf("not a magnet link: %q", magnet)
	}
	if !c.loggedIn {
		if err := c.Login(ctx); err != nil {
			return err
		}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	_ = writer.WriteField("urls", magnet)
	if savePath != "" {
		_ = writer.WriteField("savepath", savePath)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/torrents/add", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to add torrent: %s", string(respBody))
	}

	return nil
}
