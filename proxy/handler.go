/*
 * MIT License
 *
 * Copyright (c) 2024 Kalev Gonvick
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	libval "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libxch "github.com/KalevGonvick/hyper-line/exchange"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
)

// Config declares the upstream origin of one reverse-proxy handler.
type Config struct {
	// DestinationHost is the upstream host. For the upgrade path it must
	// be an IP literal.
	DestinationHost string `mapstructure:"destination_host" json:"destination_host" yaml:"destination_host" toml:"destination_host" validate:"required"`

	// DestinationPort is the upstream port.
	DestinationPort int `mapstructure:"destination_port" json:"destination_port" yaml:"destination_port" toml:"destination_port" validate:"required,gt=0,lte=65535"`

	// TLS dials the upstream with TLS (scheme https).
	TLS bool `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`

	// ForwardBase overrides the forward base URL derived from host and
	// port; it may carry a query merged into every proxied request.
	ForwardBase string `mapstructure:"forward_base" json:"forward_base" yaml:"forward_base" toml:"forward_base"`

	// ClientTLS supplies the root CA material trusted when dialing a TLS
	// upstream; nil trusts the platform web roots.
	ClientTLS *libtls.Config `mapstructure:"client_tls" json:"client_tls" yaml:"client_tls" toml:"client_tls"`

	// Logger provides the logging entry point; nil means the process
	// default.
	Logger liblog.FuncLog `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Validate checks the structural constraints of the config.
func (c Config) Validate() error {
	err := ErrorValidatorError.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.AddParent(e)
		}

		if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				//nolint #goerr113
				err.AddParent(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Namespace(), e.ActualTag()))
			}
		}
	}

	if !err.HasParent() {
		return nil
	}

	return err
}

// New builds the reverse-proxy handler. The handler is stateless and
// sharable across bindings and requests.
func New(cfg Config) (libhdl.HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = liblog.Default()
	}

	if cfg.ForwardBase == "" {
		scheme := "http"
		if cfg.TLS {
			scheme = "https"
		}
		cfg.ForwardBase = fmt.Sprintf("%s://%s:%d", scheme, cfg.DestinationHost, cfg.DestinationPort)
	}

	if _, err := url.Parse(cfg.ForwardBase); err != nil {
		return nil, ErrorInvalidURI.Error(err)
	}

	var tlsClient = &libtls.Config{}
	if cfg.ClientTLS != nil {
		tlsClient = cfg.ClientTLS
	}

	t, err := libtls.New(*tlsClient)
	if err != nil {
		return nil, err
	}

	return &hdl{
		cfg: cfg,
		tls: t,
	}, nil
}

type hdl struct {
	cfg Config
	tls libtls.TLSConfig
}

// Process consumes the exchange input, forwards it upstream and stores
// the upstream response as the exchange output. A Connection: upgrade
// request switches to the tunnel path instead.
func (o *hdl) Process(ctx context.Context, x *libxch.HTTP) error {
	req, err := x.ConsumeInput()
	if err != nil {
		return err
	}

	var clientIP string
	if src, ok := libxch.Attachment[*net.TCPAddr](x, libxch.KeyClientSrc); ok && src != nil {
		clientIP = src.IP.String()
	}

	if token := upgradeType(req.Header); token != "" {
		return o.tunnel(ctx, x, req, clientIP, token)
	}

	return o.forward(ctx, x, req, clientIP)
}

func (o *hdl) forward(ctx context.Context, x *libxch.HTTP, req *http.Request, clientIP string) error {
	uri := ForwardURI(o.cfg.ForwardBase, req.URL.Path, req.URL.RawQuery)

	var body io.Reader = req.Body
	if req.Body == nil || req.ContentLength == 0 {
		body = http.NoBody
	}

	out, err := http.NewRequestWithContext(ctx, req.Method, uri, body)
	if err != nil {
		return ErrorInvalidURI.Error(err)
	}

	out.Header = req.Header.Clone()
	out.ContentLength = req.ContentLength
	sanitizeRequest(out.Header, clientIP, "")

	rsp, err := sharedClient(o.tls.ClientTLS()).Do(out)
	if err != nil {
		return ErrorUpstreamUnreachable.Error(err)
	}

	sanitizeResponse(rsp.Header)

	o.entry(x).WithFields(logrus.Fields{
		"upstream": uri,
		"code":     rsp.StatusCode,
	}).Debug("proxied exchange")

	if err = x.SaveOutput(rsp); err != nil {
		return err
	}

	x.SetCode(rsp.StatusCode)
	return nil
}

func (o *hdl) entry(x *libxch.HTTP) *logrus.Entry {
	return o.cfg.Logger().WithField(liblog.FieldExchange, x.ID())
}
