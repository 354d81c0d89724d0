package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mencrytoo/internal/model"
	"mencrytoo/internal/nav"
)

// PostsPage is the posts feed payload.
type PostsPage struct {
	Posts []model.Post `json:"posts"`
	Error string       `json:"error,omitempty"`
}

// PostDetailPage is the post detail payload: the post and its comment
// thread, fetched in parallel.
type PostDetailPage struct {
	Post     model.Post      `json:"post"`
	Comments []model.Comment `json:"comments"`
	IsOwner  bool            `json:"isOwner"`
}

// Posts loads the posts feed.
func (l *Loaders) Posts(ctx context.Context, req Request) nav.Intent {
	var posts []model.Post

	hit, err := l.cache.Get(ctx, "posts", &posts)
	if err != nil || !hit {
		if err := l.api.GetList(ctx, "/api/posts", req.Cookie, "posts", &posts); err != nil {
			return nav.Render(PostsPage{Posts: []model.Post{}, Error: degradeMessage(err)})
		}
		if posts == nil {
			posts = []model.Post{}
		}
		_ = l.cache.Set(ctx, "posts", posts)
	}

	return nav.Render(PostsPage{Posts: posts})
}

// PostDetail loads a post and its comments in parallel.
func (l *Loaders) PostDetail(ctx context.Context, req Request, postID int64) nav.Intent {
	key := fmt.Sprintf("post-%d", postID)

	var page PostDetailPage
	hit, err := l.cache.Get(ctx, key, &page)
	if err != nil || !hit {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return l.api.Get(gctx, fmt.Sprintf("/api/posts/%d", postID), req.Cookie, &page.Post)
		})
		g.Go(func() error {
			return l.api.GetList(gctx, fmt.Sprintf("/api/posts/%d/comments", postID), req.Cookie, "comments", &page.Comments)
		})

		if err := g.Wait(); err != nil {
			return redirectFailure(missing(err, model.ErrPostNotFound), "/posts")
		}
		if page.Comments == nil {
			page.Comments = []model.Comment{}
		}
		_ = l.cache.Set(ctx, key, page)
	}

	page.IsOwner = authorize(req.User, page.Post.UserID)
	return nav.Render(page)
}
