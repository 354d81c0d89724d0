package action

// Intent is the discriminator submitted with a form that selects which
// operation the dispatcher performs.
type Intent string

// Group intents
const (
	IntentCreateGroup Intent = "create-group"
	IntentEditGroup   Intent = "edit-group"
	IntentDeleteGroup Intent = "delete-group"
	IntentJoinGroup   Intent = "join-group"
	IntentLeaveGroup  Intent = "leave-group"
)

// Event intents
const (
	IntentCreateEvent Intent = "create-event"
	IntentEditEvent   Intent = "edit-event"
	IntentDeleteEvent Intent = "delete-event"
	IntentAttendEvent Intent = "attend-event"
	IntentLeaveEvent  Intent = "leave-event"
)

// Post and comment intents
const (
	IntentCreatePost    Intent = "create-post"
	IntentEditPost      Intent = "edit-post"
	IntentDeletePost    Intent = "delete-post"
	IntentLikePost      Intent = "like-post"
	IntentUnlikePost    Intent = "unlike-post"
	IntentCreateComment Intent = "create-comment"
	IntentDeleteComment Intent = "delete-comment"
)

// Image intents
const (
	IntentAddGroupImage    Intent = "add-group-image"
	IntentEditGroupImage   Intent = "edit-group-image"
	IntentDeleteGroupImage Intent = "delete-group-image"
	IntentAddEventImage    Intent = "add-event-image"
	IntentEditEventImage   Intent = "edit-event-image"
	IntentDeleteEventImage Intent = "delete-event-image"
)

// Form, profile and auth intents
const (
	IntentCreateContact     Intent = "create-contact"
	IntentCreatePartnership Intent = "create-partnership"
	IntentAddTags           Intent = "add-tags"
	IntentUpdateProfile     Intent = "update-profile"
	IntentDeleteProfile     Intent = "delete-profile"
	IntentSignup            Intent = "signup"
	IntentLogin             Intent = "login"
	IntentLogout            Intent = "logout"
)

// handlers is the dispatch table. Every recognized intent maps to exactly
// one handler; an intent missing here is a client/integration error, not a
// crash.
var handlers = map[Intent]handlerFunc{
	IntentCreateGroup: (*Dispatcher).createGroup,
	IntentEditGroup:   (*Dispatcher).editGroup,
	IntentDeleteGroup: (*Dispatcher).deleteGroup,
	IntentJoinGroup:   (*Dispatcher).joinGroup,
	IntentLeaveGroup:  (*Dispatcher).leaveGroup,

	IntentCreateEvent: (*Dispatcher).createEvent,
	IntentEditEvent:   (*Dispatcher).editEvent,
	IntentDeleteEvent: (*Dispatcher).deleteEvent,
	IntentAttendEvent: (*Dispatcher).attendEvent,
	IntentLeaveEvent:  (*Dispatcher).leaveEvent,

	IntentCreatePost:    (*Dispatcher).createPost,
	IntentEditPost:      (*Dispatcher).editPost,
	IntentDeletePost:    (*Dispatcher).deletePost,
	IntentLikePost:      (*Dispatcher).likePost,
	IntentUnlikePost:    (*Dispatcher).unlikePost,
	IntentCreateComment: (*Dispatcher).createComment,
	IntentDeleteComment: (*Dispatcher).deleteComment,

	IntentAddGroupImage:    (*Dispatcher).addGroupImage,
	IntentEditGroupImage:   (*Dispatcher).editGroupImage,
	IntentDeleteGroupImage: (*Dispatcher).deleteGroupImage,
	IntentAddEventImage:    (*Dispatcher).addEventImage,
	IntentEditEventImage:   (*Dispatcher).editEventImage,
	IntentDeleteEventImage: (*Dispatcher).deleteEventImage,

	IntentCreateContact:     (*Dispatcher).createContact,
	IntentCreatePartnership: (*Dispatcher).createPartnership,
	IntentAddTags:           (*Dispatcher).addTags,
	IntentUpdateProfile:     (*Dispatcher).updateProfile,
	IntentDeleteProfile:     (*Dispatcher).deleteProfile,
	IntentSignup:            (*Dispatcher).signup,
	IntentLogin:             (*Dispatcher).login,
	IntentLogout:            (*Dispatcher).logout,
}
