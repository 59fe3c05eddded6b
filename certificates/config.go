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

package certificates

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
)

// Pair names the PEM certificate chain and private key files of one
// server identity.
type Pair struct {
	// Cert is the PEM certificate chain file.
	Cert string `mapstructure:"cert" json:"cert" yaml:"cert" toml:"cert" validate:"required"`

	// Key is the PEM (PKCS#1/PKCS#8/EC) private key file.
	Key string `mapstructure:"key" json:"key" yaml:"key" toml:"key" validate:"required"`
}

// Config declares the TLS material of one side of a connection.
type Config struct {
	// Pairs is the certificate chain / key file list presented by the
	// server side.
	Pairs []Pair `mapstructure:"pairs" json:"pairs" yaml:"pairs" toml:"pairs" validate:"dive"`

	// RootCAFiles lists PEM bundles trusted when verifying the remote
	// peer (client side).
	RootCAFiles []string `mapstructure:"root_ca" json:"root_ca" yaml:"root_ca" toml:"root_ca"`

	// InheritSystemCA extends the root pool with the platform web roots.
	// It is implied when no RootCAFiles are given.
	InheritSystemCA bool `mapstructure:"inherit_system_ca" json:"inherit_system_ca" yaml:"inherit_system_ca" toml:"inherit_system_ca"`
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
