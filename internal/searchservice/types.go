package searchservice

import (
	"log/slog"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

const (
	MinQueryLength  = 2
	DefaultPageSize = 6

	// title-sorted sample, topped up from the newest blogs when it is small
	TitleSampleSize  = 100
	MinTitleSample   = 20
	RecentSampleSize = 200
)

const (
	titleWeight   = 10
	authorWeight  = 5
	tagWeight     = 3
	contentWeight = 1
)

// Hit is a blog matching a search together with its relevance score.
type Hit struct {
	store.Blog
	Score int `json:"search_score"`
}

type SearchService struct {
	s        store.Store
	c        *common.Cache
	logger   *slog.Logger
	pageSize int
}
