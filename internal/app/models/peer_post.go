package models

import "time"

// AnonymousUserID replaces the author of anonymous posts in listings
const AnonymousUserID = "anonymous"

// PeerPost is a forum post, stored under peer_post:{id}
type PeerPost struct {
	ID          string    `json:"id" example:"post_9b2f..."`
	UserID      string    `json:"userId"`
	Content     string    `json:"content"`
	Category    string    `json:"category" example:"academic-stress"`
	IsAnonymous bool      `json:"isAnonymous"`
	Timestamp   time.Time `json:"timestamp"`
	Likes       int       `json:"likes"`
	Replies     []Reply   `json:"replies"`
	IsModerated bool      `json:"isModerated"`
	RiskLevel   RiskLevel `json:"riskLevel" example:"low"`
	Flagged     bool      `json:"flagged"`
}

// Reply is a forum reply, embedded in its post and also stored under peer_reply:{id}
type Reply struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	PostID      string    `json:"postId"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"isAnonymous"`
	Timestamp   time.Time `json:"timestamp"`
	Likes       int       `json:"likes"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Flagged     bool      `json:"flagged"`
}

// PublicView returns the post as it may be shown in listings: flagged replies
// are dropped and anonymous authors are masked.
func (p PeerPost) PublicView() PeerPost {
	out := p
	if out.IsAnonymous {
		out.UserID = AnonymousUserID
	}
	out.Replies = make([]Reply, 0, len(p.Replies))
	for _, r := range p.Replies {
		if r.Flagged {
			continue
		}
		if r.IsAnonymous {
			r.UserID = AnonymousUserID
		}
		out.Replies = append(out.Replies, r)
	}
	return out
}
