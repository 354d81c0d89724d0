package model

import (
	"errors"
	"time"
)

// Post represents a user's post.
type Post struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	Title     string       `json:"title"`
	Caption   string       `json:"caption"`
	Image     string       `json:"image"`
	Likes     int          `json:"likes"`
	IsLiked   bool         `json:"isLiked"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// Comment represents a comment on a post. ParentID, when present, references
// another comment on the same post (threading).
type Comment struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	PostID    int64        `json:"postId"`
	Comment   string       `json:"comment"`
	ParentID  *int64       `json:"parentId,omitempty"`
	Likes     int          `json:"likes"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// LikeState is the server's authoritative like state returned by the
// like/unlike endpoints. The client never does its own like math; whatever
// the server answers wins over any optimistic guess.
type LikeState struct {
	PostID  int64 `json:"postId"`
	Likes   int   `json:"likes"`
	IsLiked bool  `json:"isLiked"`
}

// PostForm holds the submitted post fields prior to validation.
type PostForm struct {
	Title    string
	Caption  string
	HasImage bool
}

// Post field limits
const (
	PostTitleMin   = 5
	PostTitleMax   = 25
	PostCaptionMin = 50
	PostCaptionMax = 500
)

var ErrPostNotFound = errors.New("post not found")
