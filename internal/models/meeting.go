package models

// MeetingStatus is the lifecycle state reported by the backend for a meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusOngoing   MeetingStatus = "ongoing"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Meeting is a historic meeting as returned by the B2P backend.
// The payload is untrusted; optional fields (ShareURL, MeetingLink,
// StudentIDs) may be absent and must be treated as empty, not trusted.
type Meeting struct {
	ID             string        `json:"MEETING_ID"`
	Owner          string        `json:"owner"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	MeetingTimeIST string        `json:"meeting_time_ist"`
	Duration       int           `json:"duration"`
	Participants   []string      `json:"participants"`
	StudentIDs     []string      `json:"studentIds"`
	Status         MeetingStatus `json:"status"`
	MeetingLink    string        `json:"meetingLink"`
	ShareURL       string        `json:"share_url"`
	IsActive       bool          `json:"isActive"`
}

// CanJoin reports whether a join action should be offered. The action is
// driven by status alone; the link may be absent in the payload and the
// action then navigates nowhere.
func (m *Meeting) CanJoin() bool {
	return m.Status == MeetingStatusOngoing
}

// HasRecording reports whether a watch-recording action should be offered,
// independent of meeting status.
func (m *Meeting) HasRecording() bool {
	return m.ShareURL != ""
}

// StudentCount returns the number of enrolled students, tolerating an
// absent studentIds field.
func (m *Meeting) StudentCount() int {
	return len(m.StudentIDs)
}
