package action

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
	"mencrytoo/internal/validate"
)

func postFormFrom(sub Submission) model.PostForm {
	_, hasImage := findUpload(sub, "image")
	return model.PostForm{
		Title:    sub.Fields.Get("title"),
		Caption:  sub.Fields.Get("caption"),
		HasImage: hasImage,
	}
}

func postFields(f model.PostForm) url.Values {
	return url.Values{
		"title":   {f.Title},
		"caption": {f.Caption},
	}
}

func (d *Dispatcher) createPost(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}

	form := postFormFrom(sub)
	if errs := validate.Post(form, true); !errs.Valid() {
		return Result{Errors: errs}
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	var created model.Post
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/users/%d/posts/create", user.ID), sub.Cookie, postFields(form), []api.File{*file}, &created); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "posts", "profile")
	return Result{Redirect: fmt.Sprintf("/posts/%d", created.ID)}
}

func (d *Dispatcher) editPost(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	postID, res := requireID(sub, "postId")
	if res != nil {
		return *res
	}

	form := postFormFrom(sub)
	if errs := validate.Post(form, false); !errs.Valid() {
		return Result{Errors: errs}
	}

	file, res := d.prepareImage(sub, "image")
	if res != nil {
		return *res
	}
	var files []api.File
	if file != nil {
		files = append(files, *file)
	}

	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/posts/%d/edit", postID), sub.Cookie, postFields(form), files, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("post-%d", postID), "posts", "profile")
	return Result{Redirect: fmt.Sprintf("/posts/%d", postID)}
}

func (d *Dispatcher) deletePost(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	postID, res := requireID(sub, "postId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/posts/%d/delete", postID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("post-%d", postID), "posts", "profile")
	return Result{Redirect: "/profile"}
}

// likePost forwards a like and renders the server's authoritative like
// state. The client never keeps its own optimistic count: whatever the
// server answers is the corrected state, even if it disagrees with the
// caller's guess.
func (d *Dispatcher) likePost(ctx context.Context, sub Submission) Result {
	return d.toggleLike(ctx, sub, "like")
}

func (d *Dispatcher) unlikePost(ctx context.Context, sub Submission) Result {
	return d.toggleLike(ctx, sub, "unlike")
}

func (d *Dispatcher) toggleLike(ctx context.Context, sub Submission, verb string) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	postID, res := requireID(sub, "postId")
	if res != nil {
		return *res
	}

	var state model.LikeState
	if err := d.api.PostJSON(ctx, fmt.Sprintf("/api/posts/%d/%s", postID, verb), sub.Cookie, nil, &state); err != nil {
		return d.fail(err)
	}
	state.PostID = postID

	d.invalidate(ctx, fmt.Sprintf("post-%d", postID), "posts")
	return Result{Data: state}
}

func (d *Dispatcher) createComment(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	postID, res := requireID(sub, "postId")
	if res != nil {
		return *res
	}

	comment := sub.Fields.Get("comment")
	if comment == "" {
		return Result{Status: http.StatusBadRequest, Message: "missing required field: comment"}
	}

	body := map[string]any{"comment": comment}
	if parentID, err := strconv.ParseInt(sub.Fields.Get("parentId"), 10, 64); err == nil {
		body["parentId"] = parentID
	}

	if err := d.api.PostJSON(ctx, fmt.Sprintf("/api/posts/%d/comments", postID), sub.Cookie, body, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("post-%d", postID))
	return Result{Redirect: fmt.Sprintf("/posts/%d", postID)}
}

func (d *Dispatcher) deleteComment(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	commentID, res := requireID(sub, "commentId")
	if res != nil {
		return *res
	}
	postID, res := requireID(sub, "postId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/comments/%d/delete", commentID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("post-%d", postID))
	return Result{Redirect: fmt.Sprintf("/posts/%d", postID)}
}
