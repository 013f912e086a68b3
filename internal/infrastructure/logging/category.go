package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
	Signaling       Category = "Signaling"
	Lifecycle       Category = "Lifecycle"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Signaling
	Connect    SubCategory = "Connect"
	Disconnect SubCategory = "Disconnect"
	Relay      SubCategory = "Relay"
	Malformed  SubCategory = "Malformed"

	// Lifecycle
	Create SubCategory = "Create"
	Join   SubCategory = "Join"
	Leave  SubCategory = "Leave"
	Sweep  SubCategory = "Sweep"
	Events SubCategory = "Events"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
	ConnID       ExtraKey = "ConnID"
	RoomCode     ExtraKey = "RoomCode"
	MessageType  ExtraKey = "MessageType"
	Reason       ExtraKey = "Reason"
	MemberCount  ExtraKey = "MemberCount"
)
