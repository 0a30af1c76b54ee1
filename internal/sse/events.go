// Package sse mirrors page document changes to the browser with Server-Sent Events.
package sse

import (
	"time"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first event on every stream.
	EventConnected EventType = "connected"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"

	// EventResults replaces the content of the results container.
	EventResults EventType = "results"
	// EventStatus replaces the status message or hides it.
	EventStatus EventType = "status"
	// EventFormCleared resets the file input and both label inputs.
	EventFormCleared EventType = "form_cleared"
	// EventAlert shows a blocking alert.
	EventAlert EventType = "alert"
	// EventPageClosed tells the browser its page session is gone.
	EventPageClosed EventType = "page_closed"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// PageID scopes the event to the clients of one page.
	// Empty means every client.
	PageID string `json:"page_id,omitempty"`
}

// ResultsEventData carries the rendered results container.
type ResultsEventData struct {
	HTML string `json:"html"`
}

// StatusEventData carries the status region state.
type StatusEventData struct {
	Text   string `json:"text"`
	Kind   string `json:"kind"`
	Hidden bool   `json:"hidden"`
}

// AlertEventData carries an alert message.
type AlertEventData struct {
	Message string `json:"message"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewResultsEvent creates a results event for a page.
func NewResultsEvent(pageID, html string) Event {
	return Event{
		Type:      EventResults,
		Data:      ResultsEventData{HTML: html},
		PageID:    pageID,
		Timestamp: time.Now(),
	}
}

// NewStatusEvent creates a status event for a page.
func NewStatusEvent(pageID, text, kind string, hidden bool) Event {
	return Event{
		Type:      EventStatus,
		Data:      StatusEventData{Text: text, Kind: kind, Hidden: hidden},
		PageID:    pageID,
		Timestamp: time.Now(),
	}
}

// NewFormClearedEvent creates a form_cleared event for a page.
func NewFormClearedEvent(pageID string) Event {
	return Event{
		Type:      EventFormCleared,
		Data:      struct{}{},
		PageID:    pageID,
		Timestamp: time.Now(),
	}
}

// NewAlertEvent creates an alert event for a page.
func NewAlertEvent(pageID, message string) Event {
	return Event{
		Type:      EventAlert,
		Data:      AlertEventData{Message: message},
		PageID:    pageID,
		Timestamp: time.Now(),
	}
}

// NewPageClosedEvent creates a page_closed event for a page.
func NewPageClosedEvent(pageID string) Event {
	return Event{
		Type:      EventPageClosed,
		Data:      struct{}{},
		PageID:    pageID,
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
