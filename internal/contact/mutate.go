package contact

import "slices"

// AddContact returns a copy of list with a new, empty contact appended.
func AddContact(list []Contact, name string, id int64) []Contact {
	out := make([]Contact, len(list), len(list)+1)
	copy(out, list)
	return append(out, Contact{
		ID:     id,
		Name:   name,
		Phones: []PhoneEntry{},
		Emails: []EmailEntry{},
	})
}

// DeleteContact returns a copy of list without any contact matching id.
// The list is returned as is when no contact matches.
func DeleteContact(list []Contact, id int64) []Contact {
	if indexOf(list, id) < 0 {
		return list
	}
	return slices.DeleteFunc(slices.Clone(list), func(c Contact) bool { return c.ID == id })
}

// AddPhone appends a phone entry to the contact matching contactID.
// An invalid number yields a *ValidationError and the unchanged list.
func AddPhone(list []Contact, contactID int64, typ PhoneType, number string, id int64) ([]Contact, error) {
	if err := ValidatePhoneNumber(number); err != nil {
		return list, err
	}
	entry := PhoneEntry{ID: id, Type: typ, Number: number}
	return update(list, contactID, func(c *Contact) bool {
		c.Phones = append(slices.Clone(c.Phones), entry)
		return true
	}), nil
}

// DeletePhone removes the phone matching phoneID from the contact matching
// contactID. Missing IDs leave the list unchanged.
func DeletePhone(list []Contact, contactID, phoneID int64) []Contact {
	return update(list, contactID, func(c *Contact) bool {
		i := slices.IndexFunc(c.Phones, func(p PhoneEntry) bool { return p.ID == phoneID })
		if i < 0 {
			return false
		}
		c.Phones = slices.Delete(slices.Clone(c.Phones), i, i+1)
		return true
	})
}

// AddEmail appends an email entry to the contact matching contactID.
// An invalid address yields a *ValidationError and the unchanged list.
func AddEmail(list []Contact, contactID int64, typ EmailType, address string, id int64) ([]Contact, error) {
	if err := ValidateEmailAddress(address); err != nil {
		return list, err
	}
	entry := EmailEntry{ID: id, Type: typ, Address: address}
	return update(list, contactID, func(c *Contact) bool {
		c.Emails = append(slices.Clone(c.Emails), entry)
		return true
	}), nil
}

// DeleteEmail removes the email matching emailID from the contact matching
// contactID. Missing IDs leave the list unchanged.
func DeleteEmail(list []Contact, contactID, emailID int64) []Contact {
	return update(list, contactID, func(c *Contact) bool {
		i := slices.IndexFunc(c.Emails, func(e EmailEntry) bool { return e.ID == emailID })
		if i < 0 {
			return false
		}
		c.Emails = slices.Delete(slices.Clone(c.Emails), i, i+1)
		return true
	})
}

// update applies fn to a copy of the contact matching id and returns a new
// list holding that copy. When the contact is absent or fn reports no change,
// the original list is returned.
func update(list []Contact, id int64, fn func(*Contact) bool) []Contact {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	c := list[i]
	if !fn(&c) {
		return list
	}
	out := slices.Clone(list)
	out[i] = c
	return out
}
