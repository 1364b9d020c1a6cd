// Package views builds render-ready view models from fetched backend data.
// Everything here is a pure transformation; nothing mutates the fetched
// models and nothing talks to the network.
package views

import (
	"fmt"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
)

// EmptyMeetingsMessage is shown when the student has no meeting history.
const EmptyMeetingsMessage = "No Meetings Found"

// MakePaymentRoute is where the dashboard's call-to-action navigates.
const MakePaymentRoute = "/payments"

// Action is a rendered button or link on a card.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Color string `json:"color"`
}

// MeetingCard is one meeting rendered for the dashboard.
type MeetingCard struct {
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"duration_minutes"`
	StudentCount    int     `json:"student_count"`
	Status          Action  `json:"status"`
	WatchRecording  *Action `json:"watch_recording,omitempty"`
	JoinMeeting     *Action `json:"join_meeting,omitempty"`
}

// TransactionRow is one ledger entry rendered for the dashboard sidebar.
type TransactionRow struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	AmountLabel   string  `json:"amount_label"`
	Date          string  `json:"date"`
}

// Dashboard is the full dashboard view model. Each resource carries its own
// error; one failed fetch never blanks the other resource.
type Dashboard struct {
	Meetings          []MeetingCard    `json:"meetings"`
	MeetingsEmpty     string           `json:"meetings_empty,omitempty"`
	MeetingsError     string           `json:"meetings_error,omitempty"`
	Transactions      []TransactionRow `json:"transactions"`
	TransactionsError string           `json:"transactions_error,omitempty"`
	MakePayment       Action           `json:"make_payment"`
}

// StatusColor maps a meeting status to its render color.
func StatusColor(status models.MeetingStatus) string {
	switch status {
	case models.MeetingStatusScheduled:
		return "blue"
	case models.MeetingStatusOngoing:
		return "green"
	case models.MeetingStatusCompleted:
		return "gray"
	case models.MeetingStatusCancelled:
		return "red"
	default:
		return "neutral"
	}
}

// BuildMeetingCard renders one meeting. The status button always shows the
// raw status string; join and recording actions are conditional.
func BuildMeetingCard(m models.Meeting) MeetingCard {
	card := MeetingCard{
		Title:           m.Title,
		Description:     m.Description,
		Date:            m.Date,
		Time:            m.Time,
		DurationMinutes: m.Duration,
		StudentCount:    m.StudentCount(),
		Status: Action{
			Label: string(m.Status),
			Color: StatusColor(m.Status),
		},
	}

	if m.HasRecording() {
		card.WatchRecording = &Action{
			Label: "watch recording",
			URL:   m.ShareURL,
			Color: "green",
		}
	}

	if m.CanJoin() {
		card.JoinMeeting = &Action{
			Label: "Join Meeting",
			URL:   m.MeetingLink,
			Color: "blue",
		}
	}

	return card
}

// BuildTransactionRow renders one ledger entry with its formatted date.
func BuildTransactionRow(t models.Transaction) TransactionRow {
	return TransactionRow{
		TransactionID: t.TransactionID,
		Amount:        t.Amount,
		AmountLabel:   fmt.Sprintf("₹ %v", t.Amount),
		Date:          t.DateTime().Format("02/01/2006"),
	}
}

// BuildDashboard assembles the dashboard from both fetch results. A nil
// error with zero meetings renders the empty state; a fetch error renders
// the error for that resource only.
func BuildDashboard(meetings []models.Meeting, transactions []models.Transaction, meetingsErr, transactionsErr error) *Dashboard {
	dashboard := &Dashboard{
		Meetings:     []MeetingCard{},
		Transactions: []TransactionRow{},
		MakePayment: Action{
			Label: "Make Payment",
			URL:   MakePaymentRoute,
			Color: "blue",
		},
	}

	switch {
	case meetingsErr != nil:
		dashboard.MeetingsError = fmt.Sprintf("ERROR WHILE FETCHING DATA: %v", meetingsErr)
	case len(meetings) == 0:
		dashboard.MeetingsEmpty = EmptyMeetingsMessage
	default:
		for _, m := range meetings {
			dashboard.Meetings = append(dashboard.Meetings, BuildMeetingCard(m))
		}
	}

	if transactionsErr != nil {
		dashboard.TransactionsError = fmt.Sprintf("ERROR WHILE FETCHING DATA: %v", transactionsErr)
	} else {
		for _, t := range transactions {
			dashboard.Transactions = append(dashboard.Transactions, BuildTransactionRow(t))
		}
	}

	return dashboard
}
