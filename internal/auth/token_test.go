package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenCodec", func() {
	var (
		codec   *JWTTokenCodec
		payload IdentityPayload
	)

	ginkgo.BeforeEach(func() {
		codec = NewJWTTokenCodec(testSecret, time.Hour)
		payload = IdentityPayload{
			ID:             "emp-1",
			BusinessID:     "biz-1",
			Role:           RoleEmployee,
			RoleID:         "role-1",
			RoleName:       "Cajero",
			ModuleAccessID: "m1,m4",
		}
	})

	ginkgo.It("should round-trip the identity fields", func() {
		token, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		decoded, err := codec.Verify(token)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(decoded).To(gomega.Equal(payload))
	})

	ginkgo.It("should issue distinct tokens for the same payload", func() {
		first, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		second, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(first).NotTo(gomega.Equal(second))
	})

	ginkgo.It("should carry the registered claims", func() {
		token, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		claims := &Claims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.Subject).To(gomega.Equal("emp-1"))
		gomega.Expect(claims.RegisteredClaims.ID).NotTo(gomega.BeEmpty())
		gomega.Expect(claims.ExpiresAt.Sub(claims.IssuedAt.Time)).To(gomega.Equal(time.Hour))
	})

	ginkgo.It("should reject an expired token", func() {
		codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		codec.now = time.Now
		_, err = codec.Verify(token)
		gomega.Expect(errors.Is(err, ErrTokenExpired)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject a tampered token", func() {
		token, err := codec.Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		parts := strings.Split(token, ".")
		forged, err := NewJWTTokenCodec(testSecret, time.Hour).Sign(IdentityPayload{
			ID: "admin-x", BusinessID: "biz-1", Role: RoleAdmin, ModuleAccessID: "m1,m2,m3",
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		forgedParts := strings.Split(forged, ".")

		_, err = codec.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject tokens signed with another secret", func() {
		token, err := NewJWTTokenCodec("another-secret-with-at-least-32-chars", time.Hour).Sign(payload)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = codec.Verify(token)
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject other signing methods", func() {
		claims := &Claims{
			IdentityPayload: payload,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = codec.Verify(token)
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("should require an expiry and identity claims", func() {
		noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{IdentityPayload: payload}).SignedString([]byte(testSecret))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = codec.Verify(noExpiry)
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())

		anonymous, err := codec.Sign(IdentityPayload{Role: RoleAdmin})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = codec.Verify(anonymous)
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject garbage", func() {
		_, err := codec.Verify("not-a-token")
		gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
	})
})
