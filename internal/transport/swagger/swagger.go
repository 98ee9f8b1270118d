package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves Swagger UI for the API description published at docURL.
func Handler(docURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(docURL),
	)
}
