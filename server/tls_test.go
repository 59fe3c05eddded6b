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

package server_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libsrv "github.com/KalevGonvick/hyper-line/server"
)

func writeSelfSigned(dir string) (string, string) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).ToNot(HaveOccurred())

	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{"localhost"},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())

	keyDER, err := x509.MarshalECPrivateKey(key)
	Expect(err).ToNot(HaveOccurred())

	certFile := filepath.Join(dir, "server.pem")
	keyFile := filepath.Join(dir, "server.key")

	Expect(os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600)).ToNot(HaveOccurred())
	Expect(os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600)).ToNot(HaveOccurred())

	return certFile, keyFile
}

var _ = Describe("[TC-TL] Server TLS", func() {
	It("[TC-TL-001] should terminate tls and negotiate h2 through alpn", func() {
		cert, key := writeSelfSigned(GinkgoT().TempDir())

		port := freePort()

		cfg := libsrv.NewBuilder().
			Port(port).
			Logger(liblog.Discard()).
			TLSServer(libtls.Config{Pairs: []libtls.Pair{{Cert: cert, Key: key}}}).
			AddPath(libhdl.Binding{
				PathPrefix: "/test",
				Method:     libhdl.MethodPost,
				Request:    libhdl.HTTPChain{echoHandler},
			}).
			Build()

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- libsrv.Run(ctx, cfg)
		}()

		cli := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
				ForceAttemptHTTP2: true,
			},
		}

		base := "https://127.0.0.1:" + strconv.Itoa(port)
		waitReady(base+"/ready", cli)

		rsp, err := cli.Post(base+"/test", "text/plain", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(rsp.ProtoMajor).To(Equal(2))
		Expect(rsp.Body.Close()).ToNot(HaveOccurred())

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})
})
