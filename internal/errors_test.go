package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/pos-identity/internal"
)

var _ = Describe("AppError", func() {
	It("should pass classified errors through Normalize", func() {
		original := internal.NewConflictError("Role name taken", internal.ErrCodeRoleNameTaken)
		wrapped := fmt.Errorf("create role: %w", original)

		normalized := internal.Normalize(wrapped, "Error creating role")
		Expect(normalized).To(BeIdenticalTo(original))
		Expect(internal.StatusOf(normalized)).To(Equal(http.StatusConflict))
	})

	It("should hide raw errors behind an internal error", func() {
		raw := errors.New("pq: connection refused")

		normalized := internal.Normalize(raw, "Error creating role")
		appErr, ok := internal.IsAppError(normalized)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(appErr.Message).To(Equal("Error creating role"))
		Expect(errors.Is(normalized, raw)).To(BeTrue())

		body, err := json.Marshal(appErr)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).NotTo(ContainSubstring("connection refused"))
	})

	It("should leave nil alone", func() {
		Expect(internal.Normalize(nil, "unused")).To(Succeed())
		Expect(internal.StatusOf(errors.New("x"))).To(Equal(http.StatusInternalServerError))
	})

	It("should render field errors with details", func() {
		appErr := internal.NewValidationFieldError("adminEmail", "string doesn't match the regular expression", internal.ErrCodeValidationFailed)

		status, body := appErr.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(appErr.Error()).To(Equal("string doesn't match the regular expression"))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{
			"error": {
				"type": "VALIDATION_ERROR",
				"code": "VALIDATION_FAILED",
				"message": "Validation failed",
				"details": {"errors": [{"field": "adminEmail", "message": "string doesn't match the regular expression", "code": "VALIDATION_FAILED"}]}
			}
		}`))
	})

	It("should hand out independent shared errors", func() {
		first := internal.ErrInvalidToken().WithCause(errors.New("expired"))
		second := internal.ErrInvalidToken()

		Expect(second.Cause).To(BeNil())
		Expect(first.Error()).To(Equal("Invalid token: expired"))
		Expect(second.Error()).To(Equal("Invalid token"))
	})
})

var _ = Describe("Request context", func() {
	It("should carry the caller's ids", func() {
		ctx := internal.ContextWithUserID(context.Background(), "u-1")
		ctx = internal.ContextWithBusinessID(ctx, "b-1")

		Expect(internal.UserIDFromContext(ctx)).To(Equal("u-1"))
		Expect(internal.BusinessIDFromContext(ctx)).To(Equal("b-1"))
		Expect(internal.BusinessIDFromContext(context.Background())).To(BeEmpty())
	})

	It("should default the timeout", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()

		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", 5*time.Second, time.Second))
	})
})
