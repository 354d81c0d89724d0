package loader

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mencrytoo/internal/model"
	"mencrytoo/internal/nav"
)

// ProfilePage is the signed-in user's profile payload.
type ProfilePage struct {
	User   *model.SessionUser `json:"user"`
	Posts  []model.Post       `json:"posts"`
	Groups []model.Group      `json:"groups"`
	Error  string             `json:"error,omitempty"`
}

// TagsPage is the tag list payload, used by the tag picker on signup and
// profile pages.
type TagsPage struct {
	Tags  []model.Tag `json:"tags"`
	Error string      `json:"error,omitempty"`
}

// Profile loads the signed-in user's posts and groups in parallel. Without a
// session there is nothing to show, so the loader redirects home.
func (l *Loaders) Profile(ctx context.Context, req Request) nav.Intent {
	if req.User == nil {
		return redirectFailure(model.ErrSessionRequired, "/")
	}

	// Profile data is cached per user; Clear("profile") still sweeps every
	// variant because invalidation matches by prefix.
	key := fmt.Sprintf("profile-%d", req.User.ID)

	page := ProfilePage{User: req.User}
	hit, err := l.cache.Get(ctx, key, &page)
	if err != nil || !hit {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return l.api.GetList(gctx, fmt.Sprintf("/api/users/%d/posts", req.User.ID), req.Cookie, "posts", &page.Posts)
		})
		g.Go(func() error {
			return l.api.GetList(gctx, fmt.Sprintf("/api/users/%d/groups", req.User.ID), req.Cookie, "groups", &page.Groups)
		})

		if err := g.Wait(); err != nil {
			// A 404 here means the account itself is gone, not just an
			// empty profile.
			if err = missing(err, model.ErrUserNotFound); errors.Is(err, model.ErrUserNotFound) {
				return redirectFailure(err, "/")
			}
			page.Posts = []model.Post{}
			page.Groups = []model.Group{}
			page.Error = degradeMessage(err)
			return nav.Render(page)
		}
		if page.Posts == nil {
			page.Posts = []model.Post{}
		}
		if page.Groups == nil {
			page.Groups = []model.Group{}
		}
		_ = l.cache.Set(ctx, key, page)
	}

	page.User = req.User
	return nav.Render(page)
}

// Tags loads the available interest tags.
func (l *Loaders) Tags(ctx context.Context, req Request) nav.Intent {
	var tags []model.Tag

	hit, err := l.cache.Get(ctx, "tags", &tags)
	if err != nil || !hit {
		if err := l.api.GetList(ctx, "/api/tags", req.Cookie, "tags", &tags); err != nil {
			return nav.Render(TagsPage{Tags: []model.Tag{}, Error: degradeMessage(err)})
		}
		if tags == nil {
			tags = []model.Tag{}
		}
		_ = l.cache.Set(ctx, "tags", tags)
	}

	return nav.Render(TagsPage{Tags: tags})
}
