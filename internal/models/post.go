package models

import "time"

// Post is a blog entry. Comments live inside the post record for the
// post's whole lifetime; they are appended, never edited, and disappear
// with the post.
type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"` // denormalized username; authorship source of truth
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	Comments []Comment `json:"comments"`
}

// Comment is a reader comment embedded in a Post.
type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}
