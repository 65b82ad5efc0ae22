// Package contact holds the contact data model and the pure operations over
// a contact list: mutators, selection, and statistics. Nothing here performs
// I/O; persistence lives in package store.
package contact

import (
	"fmt"
	"strings"
)

// Contact is a named entity owning zero or more phone and email entries.
// ID is the creation timestamp in Unix milliseconds.
type Contact struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Phones []PhoneEntry `json:"phones"`
	Emails []EmailEntry `json:"emails"`
}

// PhoneEntry is a typed phone number attached to one contact.
type PhoneEntry struct {
	ID     int64     `json:"id"`
	Type   PhoneType `json:"type"`
	Number string    `json:"number"`
}

// EmailEntry is a typed email address attached to one contact.
type EmailEntry struct {
	ID      int64     `json:"id"`
	Type    EmailType `json:"type"`
	Address string    `json:"address"`
}

// PhoneType labels a phone entry. Values are the display labels.
type PhoneType string

const (
	PhoneCell     PhoneType = "Cell"
	PhoneWhatsApp PhoneType = "What's App"
	PhoneWork     PhoneType = "Work"
	PhoneHome     PhoneType = "Home"
	PhoneMain     PhoneType = "Main"
	PhoneWorkFax  PhoneType = "Work fax"
	PhoneHomeFax  PhoneType = "Home fax"
	PhonePager    PhoneType = "Pager"
	PhoneOther    PhoneType = "Phone Other"
	PhoneCustom   PhoneType = "Phone Custom"
)

// EmailType labels an email entry.
type EmailType string

const (
	EmailPersonal EmailType = "Personal"
	EmailWork     EmailType = "Work"
	EmailOther    EmailType = "Other"
	EmailPrivate  EmailType = "Private"
)

var phoneTypes = []PhoneType{
	PhoneCell, PhoneWhatsApp, PhoneWork, PhoneHome, PhoneMain,
	PhoneWorkFax, PhoneHomeFax, PhonePager, PhoneOther, PhoneCustom,
}

var emailTypes = []EmailType{EmailPersonal, EmailWork, EmailOther, EmailPrivate}

// PhoneTypes returns the phone labels in selector order.
func PhoneTypes() []PhoneType {
	return append([]PhoneType(nil), phoneTypes...)
}

// EmailTypes returns the email labels in selector order.
func EmailTypes() []EmailType {
	return append([]EmailType(nil), emailTypes...)
}

// ParsePhoneType matches s against the phone labels, ignoring case and
// surrounding whitespace.
func ParsePhoneType(s string) (PhoneType, error) {
	s = strings.TrimSpace(s)
	for _, t := range phoneTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: phone type %q", ErrUnknownType, s)
}

// ParseEmailType matches s against the email labels, ignoring case and
// surrounding whitespace.
func ParseEmailType(s string) (EmailType, error) {
	s = strings.TrimSpace(s)
	for _, t := range emailTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: email type %q", ErrUnknownType, s)
}

// Find returns the contact with the given ID.
func Find(list []Contact, id int64) (Contact, bool) {
	i := indexOf(list, id)
	if i < 0 {
		return Contact{}, false
	}
	return list[i], true
}

func indexOf(list []Contact, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
