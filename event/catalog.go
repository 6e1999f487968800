package event

// Event kind names as sent in the "type" field of gateway frames.
const (
	NameError         = "Error"
	NameAuthenticated = "Authenticated"
	NamePong          = "Pong"
	NameReady         = "Ready"

	NameMessage       = "Message"
	NameMessageUpdate = "MessageUpdate"
	NameMessageDelete = "MessageDelete"

	NameChannelCreate      = "ChannelCreate"
	NameChannelUpdate      = "ChannelUpdate"
	NameChannelDelete      = "ChannelDelete"
	NameChannelGroupJoin   = "ChannelGroupJoin"
	NameChannelGroupLeave  = "ChannelGroupLeave"
	NameChannelStartTyping = "ChannelStartTyping"
	NameChannelStopTyping  = "ChannelStopTyping"
	NameChannelAck         = "ChannelAck"

	NameServerUpdate       = "ServerUpdate"
	NameServerDelete       = "ServerDelete"
	NameServerMemberUpdate = "ServerMemberUpdate"
	NameServerMemberJoin   = "ServerMemberJoin"
	NameServerMemberLeave  = "ServerMemberLeave"
	NameServerRoleUpdate   = "ServerRoleUpdate"
	NameServerRoleDelete   = "ServerRoleDelete"

	NameUserUpdate       = "UserUpdate"
	NameUserRelationship = "UserRelationship"
)

// Catalog holds the well-known events of one registry.
type Catalog struct {
	Registry *Registry

	Error         *Event
	Authenticated *Event
	Pong          *Event
	Ready         *Event

	Message       *Event
	MessageUpdate *Event
	MessageDelete *Event

	ChannelCreate      *Event
	ChannelUpdate      *Event
	ChannelDelete      *Event
	ChannelGroupJoin   *Event
	ChannelGroupLeave  *Event
	ChannelStartTyping *Event
	ChannelStopTyping  *Event
	ChannelAck         *Event

	ServerUpdate       *Event
	ServerDelete       *Event
	ServerMemberUpdate *Event
	ServerMemberJoin   *Event
	ServerMemberLeave  *Event
	ServerRoleUpdate   *Event
	ServerRoleDelete   *Event

	UserUpdate       *Event
	UserRelationship *Event
}

// NewCatalog registers every well-known event in r. It panics if any of
// them is already registered.
func NewCatalog(r *Registry) *Catalog {
	return &Catalog{
		Registry: r,

		Error:         r.MustRegister(NameError),
		Authenticated: r.MustRegister(NameAuthenticated),
		Pong:          r.MustRegister(NamePong),
		Ready:         r.MustRegister(NameReady),

		Message:       r.MustRegister(NameMessage),
		MessageUpdate: r.MustRegister(NameMessageUpdate),
		MessageDelete: r.MustRegister(NameMessageDelete),

		ChannelCreate:      r.MustRegister(NameChannelCreate),
		ChannelUpdate:      r.MustRegister(NameChannelUpdate),
		ChannelDelete:      r.MustRegister(NameChannelDelete),
		ChannelGroupJoin:   r.MustRegister(NameChannelGroupJoin),
		ChannelGroupLeave:  r.MustRegister(NameChannelGroupLeave),
		ChannelStartTyping: r.MustRegister(NameChannelStartTyping),
		ChannelStopTyping:  r.MustRegister(NameChannelStopTyping),
		ChannelAck:         r.MustRegister(NameChannelAck),

		ServerUpdate:       r.MustRegister(NameServerUpdate),
		ServerDelete:       r.MustRegister(NameServerDelete),
		ServerMemberUpdate: r.MustRegister(NameServerMemberUpdate),
		ServerMemberJoin:   r.MustRegister(NameServerMemberJoin),
		ServerMemberLeave:  r.MustRegister(NameServerMemberLeave),
		ServerRoleUpdate:   r.MustRegister(NameServerRoleUpdate),
		ServerRoleDelete:   r.MustRegister(NameServerRoleDelete),

		UserUpdate:       r.MustRegister(NameUserUpdate),
		UserRelationship: r.MustRegister(NameUserRelationship),
	}
}

// Events is the shared catalog of DefaultRegistry. Clients built without
// their own registry dispatch through these instances.
var Events = NewCatalog(DefaultRegistry)
