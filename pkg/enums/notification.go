package enums

// NotificationKind classifies a user-visible notification.
type NotificationKind string

const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindInfo    NotificationKind = "info"
)

// String implements fmt.Stringer.
func (k NotificationKind) String() string {
	return string(k)
}
