package module

const (
	SeedMessageInitialized        = "initialized"
	SeedMessageAlreadyInitialized = "already initialized"
)

type SeedResult struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
