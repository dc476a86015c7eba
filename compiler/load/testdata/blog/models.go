package blog

import (
	"time"
)

// Status of a post.
type Status string

// Post is a blog post.
//
//ease:record
type Post struct {
	ID        int64 `ease:"key"`
	Title     string
	Body      string
	Published bool
	Status    Status
	Created   time.Time `db:"created_at"`
	Tags      []string
}

// NewPost is used to insert a Post.
type NewPost struct {
	Title     string
	Body      string
	Published bool
	Status    Status
	Created   time.Time `db:"created_at"`
	Tags      []string
}

//ease:record table=people
type User struct {
	ID   int64
	Name string
}

type Audit struct {
	Rows map[string]int
}
