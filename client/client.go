// Package client implements the CLI's HTTP collaborator: one method
// per daemon control-plane route, built on net/http.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	herrors "horsetab/errors"
)

// Client talks to a running horsetab daemon's HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client bound to the daemon's HTTP port.
func New(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentConfigFileContent fetches the raw configuration file text.
func (c *Client) CurrentConfigFileContent() (string, error) {
	return c.getText("/current-config-file-content")
}

// CurrentInstalledCommands fetches the serialized installed commands.
func (c *Client) CurrentInstalledCommands() (string, error) {
	return c.getText("/current-installed-commands")
}

// TCPPort fetches the event bus's subscription port.
func (c *Client) TCPPort() (int, error) {
	text, err := c.getText("/tcp-port")
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(text)
	if err != nil {
		return 0, herrors.Wrap(err, herrors.ErrProtocol, "parse tcp-port response")
	}
	return port, nil
}

// Ps fetches the formatted process table.
func (c *Client) Ps() (string, error) {
	return c.getText("/ps")
}

// Reinstall PUTs new configuration text and returns the daemon's reply
// body (a short human-readable summary: the installed command count and
// any unreachable sequences).
func (c *Client) Reinstall(content string) (string, error) {
	req, err := http.NewRequest(http.MethodPut, c.baseURL+"/re-install", bytes.NewBufferString(content))
	if err != nil {
		return "", herrors.Wrap(err, herrors.ErrInternal, "build reinstall request")
	}
	return c.do(req)
}

// SendSequence posts a literal dot/dash sequence, in the request body,
// for the daemon to dispatch as though a human had clicked it.
func (c *Client) SendSequence(sequence string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/send-sequence", bytes.NewBufferString(sequence))
	if err != nil {
		return herrors.Wrap(err, herrors.ErrInternal, "build send-sequence request")
	}
	_, err = c.do(req)
	return err
}

func (c *Client) getText(path string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", herrors.Wrap(err, herrors.ErrInternal, "build request")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", herrors.Wrap(err, herrors.ErrInternal, "daemon request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", herrors.Wrap(err, herrors.ErrInternal, "read daemon response")
	}

	if resp.StatusCode >= 300 {
		return "", herrors.New(herrors.ErrProtocol, "daemon request", fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}
	return string(body), nil
}
