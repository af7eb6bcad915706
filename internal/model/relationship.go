package model

// RelationshipState is the viewer's relationship to another user
type RelationshipState string

const (
	RelationshipNone      RelationshipState = "none"
	RelationshipFollowing RelationshipState = "following"
	RelationshipRequested RelationshipState = "requested"
)

// FollowAction is the verb sent to the follow endpoint
type FollowAction string

const (
	FollowActionFollow   FollowAction = "follow"
	FollowActionUnfollow FollowAction = "unfollow"
)

// FollowCommand is the body of a follow/unfollow/request call
type FollowCommand struct {
	ActorID   string       `json:"userId"`
	TargetID  string       `json:"targetId"`
	Action    FollowAction `json:"action"`
	IsRequest bool         `json:"isRequest"`
}

// FollowResult is the backend's confirmation of a follow call
type FollowResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RelationshipSnapshot is the viewer's outgoing relationships as known to the server
type RelationshipSnapshot struct {
	Following []string `json:"following"`
	Pending   []string `json:"pendingRequests"`
}

// RequestAction is the owner's decision on an incoming follow request
type RequestAction string

const (
	RequestActionApprove RequestAction = "approve"
	RequestActionReject  RequestAction = "reject"
)

// IsValid returns true if a is approve or reject
func (a RequestAction) IsValid() bool {
	return a == RequestActionApprove || a == RequestActionReject
}

// FollowRequest is an incoming request on a private owner's inbox
type FollowRequest struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"profile_pic,omitempty"`
}

// AnnotatedItem pairs a collection item with the viewer's relationship to it
type AnnotatedItem struct {
	CollectionItem
	Relationship RelationshipState `json:"relationship"`
	IsSelf       bool              `json:"is_self,omitempty"`
}
