package sink

import "strings"

// Kind selects the backend a run persists to.
type Kind int

const (
	KindConsole Kind = iota
	KindFile
	KindKeyValue
	KindRelational
	KindQueue
)

// ParseKind maps a configured backend name onto a Kind. Unknown names and
// "none" select the console.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "file":
		return KindFile
	case "redis", "key-value", "keyvalue", "kv":
		return KindKeyValue
	case "mysql", "postgres", "postgresql", "sqlite", "sql", "relational":
		return KindRelational
	case "rabbitmq", "amqp", "queue":
		return KindQueue
	default:
		return KindConsole
	}
}

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindKeyValue:
		return "key-value"
	case KindRelational:
		return "relational"
	case KindQueue:
		return "queue"
	default:
		return "console"
	}
}
