package feedservice

import (
	"context"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
	"github.com/sushihentaime/blogspot/internal/postservice"
)

const (
	// trendingWindow bounds the trending candidate set to recent posts,
	// sliding from "now" at call time.
	trendingWindow = 7 * 24 * time.Hour
	// TrendingTTL is how long a trending page stays cached. Nothing
	// invalidates entries; staleness up to the TTL is accepted.
	TrendingTTL = 5 * time.Minute
)

// FeedService composes read views over the post store. It owns its cache
// instance; nothing else writes to it.
type FeedService struct {
	posts *postservice.PostModel
	cache *common.Cache
}

func NewFeedService(posts *postservice.PostModel, cache *common.Cache) *FeedService {
	return &FeedService{posts: posts, cache: cache}
}

// HomeFeed returns published posts by authors the user follows, newest first.
// An empty follow set yields an empty page, not an error.
func (s *FeedService) HomeFeed(ctx context.Context, userID int, params common.PageParams) (common.Page[postservice.Post], error) {
	return s.posts.ListPosts(ctx, postservice.Filter{
		FollowedBy:    &userID,
		PublishedOnly: true,
	}, &userID, params)
}

// Latest returns all published posts, newest first. Never cached.
func (s *FeedService) Latest(ctx context.Context, viewerID *int, params common.PageParams) (common.Page[postservice.Post], error) {
	return s.posts.ListPosts(ctx, postservice.Filter{PublishedOnly: true}, viewerID, params)
}

// Trending returns published posts from the last 7 days scored by
// view_count + 3*reactions + 5*comments, tie-broken by raw view count.
// Each (page, pageSize) result is cached for 5 minutes.
func (s *FeedService) Trending(ctx context.Context, viewerID *int, params common.PageParams) (common.Page[postservice.Post], error) {
	params = params.Normalize()

	key := common.CacheKeyTrending(params.Page, params.PageSize)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(common.Page[postservice.Post]), nil
	}

	cutoff := time.Now().Add(-trendingWindow)
	page, err := s.posts.ListPosts(ctx, postservice.Filter{
		PublishedOnly: true,
		CreatedAfter:  &cutoff,
		Sort:          postservice.SortTrending,
	}, viewerID, params)
	if err != nil {
		return common.Page[postservice.Post]{}, err
	}

	s.cache.Set(key, page, TrendingTTL)
	return page, nil
}
