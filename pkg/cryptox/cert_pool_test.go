package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	. "code.cloudfoundry.org/permstore/pkg/cryptox"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func selfSignedCA(commonName string) []byte {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).NotTo(HaveOccurred())

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	Expect(err).NotTo(HaveOccurred())

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

var _ = Describe("#NewCertPool", func() {
	It("adds every certificate", func() {
		pool, err := NewCertPool(selfSignedCA("some-ca"), selfSignedCA("another-ca"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pool.Equal(nil)).To(BeFalse())
	})

	It("returns an empty pool without certificates", func() {
		pool, err := NewCertPool()
		Expect(err).NotTo(HaveOccurred())
		Expect(pool.Equal(x509.NewCertPool())).To(BeTrue())
	})

	It("fails on input that is not PEM", func() {
		_, err := NewCertPool(selfSignedCA("some-ca"), []byte("not a certificate"))
		Expect(err).To(MatchError(ErrFailedToAppendCertToPool))
	})
})
