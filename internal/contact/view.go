package contact

// Selection tracks the single expanded contact. The zero value selects nothing.
type Selection struct {
	id  int64
	set bool
}

// Select returns a Selection holding id.
func Select(id int64) Selection {
	return Selection{id: id, set: true}
}

// ID returns the selected contact ID and whether anything is selected.
func (s Selection) ID() (int64, bool) {
	return s.id, s.set
}

// Is reports whether id is the selected contact.
func (s Selection) Is(id int64) bool {
	return s.set && s.id == id
}

// Toggle collapses the selection when id is already selected, and selects id
// otherwise.
func (s Selection) Toggle(id int64) Selection {
	if s.Is(id) {
		return Selection{}
	}
	return Select(id)
}

// Detail is the phone and email listing of the selected contact.
type Detail struct {
	ContactID int64
	Name      string
	Phones    []PhoneEntry
	Emails    []EmailEntry
	Open      bool
}

// DetailFor projects the detail view of sel over list. A selection naming a
// contact that no longer exists yields a closed Detail.
func DetailFor(list []Contact, sel Selection) Detail {
	id, ok := sel.ID()
	if !ok {
		return Detail{}
	}
	c, found := Find(list, id)
	if !found {
		return Detail{}
	}
	return Detail{
		ContactID: c.ID,
		Name:      c.Name,
		Phones:    c.Phones,
		Emails:    c.Emails,
		Open:      true,
	}
}

// Stats summarizes a contact list.
type Stats struct {
	NumberOfContacts       int   `json:"numberOfContacts"`
	NumberOfPhones         int   `json:"numberOfPhones"`
	NumberOfEmails         int   `json:"numberOfEmails"`
	NewestContactTimestamp int64 `json:"newestContactTimestamp"`
	OldestContactTimestamp int64 `json:"oldestContactTimestamp"`
}

// NoTimestamp is the newest/oldest timestamp reported for an empty list.
const NoTimestamp int64 = 0

// Empty reports whether the stats describe an empty list.
func (s Stats) Empty() bool {
	return s.NumberOfContacts == 0
}

// ComputeStats counts contacts and entries and finds the newest and oldest
// contact IDs. Empty lists report NoTimestamp for both.
func ComputeStats(list []Contact) Stats {
	st := Stats{
		NumberOfContacts:       len(list),
		NewestContactTimestamp: NoTimestamp,
		OldestContactTimestamp: NoTimestamp,
	}
	for i, c := range list {
		st.NumberOfPhones += len(c.Phones)
		st.NumberOfEmails += len(c.Emails)
		if i == 0 || c.ID > st.NewestContactTimestamp {
			st.NewestContactTimestamp = c.ID
		}
		if i == 0 || c.ID < st.OldestContactTimestamp {
			st.OldestContactTimestamp = c.ID
		}
	}
	return st
}
