package loader

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"mencrytoo/internal/model"
	"mencrytoo/internal/nav"
)

// GroupsPage is the groups list payload.
type GroupsPage struct {
	Groups []model.Group `json:"groups"`
	Error  string        `json:"error,omitempty"`
}

// GroupDetailPage is the group detail payload: the group plus its upcoming
// events, with the viewer's relationship to the group precomputed for the
// rendering layer.
type GroupDetailPage struct {
	Group       model.Group   `json:"group"`
	Events      []model.Event `json:"events"`
	IsOrganizer bool          `json:"isOrganizer"`
	IsMember    bool          `json:"isMember"`
}

// GroupEditPage is the payload for the organizer-only edit form.
type GroupEditPage struct {
	Group model.Group `json:"group"`
}

// Groups loads the groups list. List loaders degrade to an empty payload
// plus an error banner instead of redirecting. Optional ?type= and ?q=
// filters are applied after the fetch so the unfiltered list stays cached.
func (l *Loaders) Groups(ctx context.Context, req Request) nav.Intent {
	var groups []model.Group

	hit, err := l.cache.Get(ctx, "groups", &groups)
	if err != nil || !hit {
		if err := l.api.GetList(ctx, "/api/groups", req.Cookie, "groups", &groups); err != nil {
			return nav.Render(GroupsPage{Groups: []model.Group{}, Error: degradeMessage(err)})
		}
		if groups == nil {
			groups = []model.Group{}
		}
		_ = l.cache.Set(ctx, "groups", groups)
	}

	return nav.Render(GroupsPage{Groups: filterGroups(groups, req.Query.Get("type"), req.Query.Get("q"))})
}

// GroupDetail loads one group and its events in parallel. A missing group
// must redirect rather than render a non-existent entity.
func (l *Loaders) GroupDetail(ctx context.Context, req Request, groupID int64) nav.Intent {
	key := fmt.Sprintf("group-%d", groupID)

	var page GroupDetailPage
	hit, err := l.cache.Get(ctx, key, &page)
	if err != nil || !hit {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return l.api.Get(gctx, fmt.Sprintf("/api/groups/%d", groupID), req.Cookie, &page.Group)
		})
		g.Go(func() error {
			return l.api.GetList(gctx, fmt.Sprintf("/api/groups/%d/events", groupID), req.Cookie, "events", &page.Events)
		})

		if err := g.Wait(); err != nil {
			return redirectFailure(missing(err, model.ErrGroupNotFound), "/groups")
		}
		if page.Events == nil {
			page.Events = []model.Event{}
		}
		_ = l.cache.Set(ctx, key, page)
	}

	page.IsOrganizer = authorize(req.User, page.Group.OrganizerID)
	page.IsMember = isMember(page.Group, req.User)
	return nav.Render(page)
}

// GroupEdit loads the edit form for a group. Only the organizer may see it;
// anyone else is sent back to the detail page.
func (l *Loaders) GroupEdit(ctx context.Context, req Request, groupID int64) nav.Intent {
	var group model.Group
	if err := l.api.Get(ctx, fmt.Sprintf("/api/groups/%d", groupID), req.Cookie, &group); err != nil {
		return redirectFailure(missing(err, model.ErrGroupNotFound), "/groups")
	}

	if !authorize(req.User, group.OrganizerID) {
		return redirectFailure(model.ErrNotOrganizer, groupPath(groupID))
	}

	return nav.Render(GroupEditPage{Group: group})
}

func filterGroups(groups []model.Group, groupType, query string) []model.Group {
	if groupType == "" && query == "" {
		return groups
	}

	query = strings.ToLower(query)
	filtered := make([]model.Group, 0, len(groups))
	for _, g := range groups {
		if groupType != "" && !strings.EqualFold(g.Type, groupType) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(g.Name), query) &&
			!strings.Contains(strings.ToLower(g.City), query) {
			continue
		}
		filtered = append(filtered, g)
	}
	return filtered
}

func isMember(group model.Group, user *model.SessionUser) bool {
	if user == nil {
		return false
	}
	for _, m := range group.Members {
		if m.ID == user.ID {
			return true
		}
	}
	return false
}
