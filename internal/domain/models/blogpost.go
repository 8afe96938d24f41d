// internal/domain/models/blogpost.go
package models

import "time"

// PostStatus controls public visibility of a blog post.
type PostStatus string

const (
	PostDraft     PostStatus = "Draft"
	PostPublished PostStatus = "Published"
)

// BlogPost is one entry of the blog section. Content is Markdown.
type BlogPost struct {
	ID            string     `bson:"id" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Excerpt       string     `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content       string     `bson:"content,omitempty" json:"content,omitempty"`
	Status        PostStatus `bson:"status" json:"status"`
	Author        string     `bson:"author,omitempty" json:"author,omitempty"`
	PublishedAt   *time.Time `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	FeaturedImage string     `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
}

// IsPublished reports whether the post may be shown outside the admin panel.
func (p BlogPost) IsPublished() bool {
	return p.Status == PostPublished
}

// Clone returns a deep copy.
func (p BlogPost) Clone() BlogPost {
	out := p
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		out.PublishedAt = &t
	}
	return out
}

// PublishedPosts returns the published posts of posts in their original order.
func PublishedPosts(posts []BlogPost) []BlogPost {
	out := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished() {
			out = append(out, p.Clone())
		}
	}
	return out
}

// FindPost returns the post with the given id.
func FindPost(posts []BlogPost, id string) (BlogPost, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return BlogPost{}, false
}
