package repositories

import "strings"

// Key layout of the KV store
const (
	userProfilePrefix     = "user_profile:"
	userStatsPrefix       = "user_stats:"
	usersByRolePrefix     = "users_by_role:"
	usersByDeptPrefix     = "users_by_department:"
	activityLogPrefix     = "activity_log:"
	chatLogPrefix         = "chat_log:"
	riskAnalyticsPrefix   = "risk_analytics:"
	peerPostPrefix        = "peer_post:"
	peerReplyPrefix       = "peer_reply:"
	postsByCategoryPrefix = "posts_by_category:"
	allPeerPostsKey       = "all_peer_posts"
	bookingPrefix         = "booking:"
	userBookingsPrefix    = "user_bookings:"
	counselorPrefix       = "counselor:"
	counselorSlotPrefix   = "counselor_slot:"
	assessmentPrefix      = "assessment:"
)

// MaxGlobalPosts bounds the all_peer_posts list
const MaxGlobalPosts = 1000

func key(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, ":")
}
