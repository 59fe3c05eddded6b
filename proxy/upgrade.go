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
	"bufio"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	libxch "github.com/KalevGonvick/hyper-line/exchange"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
)

// tunnel performs the HTTP/1 upgrade handshake against the upstream and,
// on 101 Switching Protocols, takes the client connection over and
// splices both raw streams until either side closes. The handler returns
// right after the splice is spawned.
func (o *hdl) tunnel(ctx context.Context, x *libxch.HTTP, req *http.Request, clientIP, token string) error {
	addr, err := o.upstreamAddr()
	if err != nil {
		return err
	}

	hijack, ok := libxch.Attachment[libhdl.HijackFunc](x, libxch.KeyHijack)
	if !ok {
		return ErrorUpgradeRefused.Error(nil)
	}

	up, err := o.dial(ctx, addr)
	if err != nil {
		return ErrorUpstreamUnreachable.Error(err)
	}

	out := req.Clone(ctx)
	out.Body = http.NoBody
	out.ContentLength = 0
	out.RequestURI = ""
	sanitizeRequest(out.Header, clientIP, token)

	if err = out.Write(up); err != nil {
		_ = up.Close()
		return ErrorUpstreamProtocol.Error(err)
	}

	upR := bufio.NewReader(up)

	rsp, err := http.ReadResponse(upR, out)
	if err != nil {
		_ = up.Close()
		return ErrorUpstreamProtocol.Error(err)
	}

	if rsp.StatusCode != http.StatusSwitchingProtocols {
		_ = up.Close()
		return ErrorUpgradeRefused.Error(nil)
	}

	down, downBuf, err := hijack()
	if err != nil {
		_ = up.Close()
		return ErrorUpgradeRefused.Error(err)
	}

	if err = writeSwitching(down, rsp.Header); err != nil {
		_ = up.Close()
		_ = down.Close()
		return ErrorUpgradeRefused.Error(err)
	}

	// The synthesized 101 latches the output lifecycle; the dispatcher
	// sees the consumed flag and leaves the hijacked connection alone.
	x.SetCode(http.StatusSwitchingProtocols)
	if err = x.SaveOutput(&http.Response{
		StatusCode: http.StatusSwitchingProtocols,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     rsp.Header.Clone(),
		Body:       http.NoBody,
	}); err != nil {
		_ = up.Close()
		_ = down.Close()
		return err
	}

	if _, err = x.ConsumeOutput(); err != nil {
		_ = up.Close()
		_ = down.Close()
		return err
	}

	ent := o.entry(x)
	go func() {
		if err := splice(down, downBuf.Reader, up, upR); err != nil {
			ent.Debugf("tunnel closed: %v", err)
		}
	}()

	return nil
}

// writeSwitching mirrors the upstream 101 status line and headers onto
// the hijacked downstream connection.
func writeSwitching(w io.Writer, h http.Header) error {
	if _, err := io.WriteString(w, "HTTP/1.1 101 Switching Protocols\r\n"); err != nil {
		return err
	}

	if err := h.Write(w); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\r\n")
	return err
}

// splice copies both directions until the first close or copy error, then
// tears both connections down. Bytes already buffered on either side are
// drained through the buffered readers.
func splice(down net.Conn, downR *bufio.Reader, up net.Conn, upR *bufio.Reader) error {
	var (
		g    errgroup.Group
		once sync.Once
	)

	closeBoth := func() {
		_ = down.Close()
		_ = up.Close()
	}

	g.Go(func() error {
		_, err := io.Copy(up, downR)
		once.Do(closeBoth)
		return err
	})

	g.Go(func() error {
		_, err := io.Copy(down, upR)
		once.Do(closeBoth)
		return err
	})

	return g.Wait()
}

// upstreamAddr resolves host:port from the forward base. The host must be
// an IP literal and the port explicit.
func (o *hdl) upstreamAddr() (string, error) {
	u, err := url.Parse(o.cfg.ForwardBase)
	if err != nil {
		return "", ErrorInvalidURI.Error(err)
	}

	host := u.Hostname()
	port := u.Port()

	if host == "" || port == "" {
		return "", ErrorInvalidURI.Error(nil)
	}

	if net.ParseIP(host) == nil {
		return "", ErrorInvalidURI.Error(nil)
	}

	return net.JoinHostPort(host, port), nil
}

func (o *hdl) dial(ctx context.Context, addr string) (net.Conn, error) {
	d := &net.Dialer{}

	if !o.cfg.TLS {
		return d.DialContext(ctx, "tcp", addr)
	}

	td := &tls.Dialer{
		NetDialer: d,
		Config:    o.tls.ClientTLS(),
	}

	return td.DialContext(ctx, "tcp", addr)
}
