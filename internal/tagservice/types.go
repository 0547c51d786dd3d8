package tagservice

import (
	"log/slog"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

const (
	// SampleSize is how many of the newest published blogs are scanned.
	SampleSize = 100
	MaxTags    = 50
)

type TagService struct {
	s      store.Store
	c      *common.Cache
	logger *slog.Logger
}

type tagCount struct {
	tag   string
	count int
}
