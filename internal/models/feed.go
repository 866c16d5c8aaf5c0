package models

import "time"

// Post is a community feed post
type Post struct {
	ID           int       `json:"id"`
	AuthorID     int       `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Content      string    `json:"content"`
	LikesCount   int       `json:"likesCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment is a reply to a post
type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"postId"`
	AuthorID   int       `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PostRequest creates a post
type PostRequest struct {
	Content string `json:"content" validate:"required,notblank,max=5000"`
}

// CommentRequest creates a comment
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}
