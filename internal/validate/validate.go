// Package validate holds the pure form validators. Validators never return
// Go errors and never touch the network: they map submitted fields to a
// field-name -> message mapping, and an empty mapping means the submission
// may proceed to the mutation call.
package validate

import (
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"mencrytoo/internal/model"
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// Valid reports whether the submission passed every check.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// dateLayouts are the formats accepted for event dates, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func between(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// parseDate interprets the submitted date in the server's local zone so the
// "today or later" check agrees with the user's calendar date.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Event validates an event submission. The image is required only when
// creating.
func Event(f model.EventForm, creating bool) FieldErrors {
	errs := FieldErrors{}

	if !between(f.Name, model.EventNameMin, model.EventNameMax) {
		errs["name"] = "Name must be between 5 and 50 characters"
	}
	if !between(f.Description, model.EventDescriptionMin, model.EventDescriptionMax) {
		errs["description"] = "Description must be between 50 and 150 characters"
	}

	capacity, err := strconv.Atoi(f.Capacity)
	if err != nil || capacity < model.EventCapacityMin || capacity > model.EventCapacityMax {
		errs["capacity"] = "Capacity must be between 2 and 300"
	}

	start, startOK := parseDate(f.StartDate)
	if !startOK {
		errs["startDate"] = "Please enter a valid start date"
	} else {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if start.Before(today) {
			errs["startDate"] = "Start date must be today or later"
		}
	}

	end, endOK := parseDate(f.EndDate)
	if !endOK {
		errs["endDate"] = "Please enter a valid end date"
	} else if startOK && end.Before(start) {
		errs["endDate"] = "End date must be after the start date"
	}

	if creating && !f.HasImage {
		errs["image"] = "Image is required"
	}

	return errs
}

// Group validates a group submission. The image is required only when
// creating.
func Group(f model.GroupForm, creating bool) FieldErrors {
	errs := FieldErrors{}

	if !between(f.Name, model.GroupNameMin, model.GroupNameMax) {
		errs["name"] = "Name must be between 3 and 50 characters"
	}
	if !between(f.About, model.GroupAboutMin, model.GroupAboutMax) {
		errs["about"] = "About must be between 20 and 150 characters"
	}
	if !between(f.City, model.GroupCityMin, model.GroupCityMax) {
		errs["city"] = "City must be between 3 and 30 characters"
	}
	if utf8.RuneCountInString(f.State) != model.GroupStateLen {
		errs["state"] = "Please enter the abbreviated form of the state"
	}
	if creating && !f.HasImage {
		errs["image"] = "Image is required"
	}

	return errs
}

// Post validates a post submission.
func Post(f model.PostForm, creating bool) FieldErrors {
	errs := FieldErrors{}

	if !between(f.Title, model.PostTitleMin, model.PostTitleMax) {
		errs["title"] = "Title must be between 5 and 25 characters"
	}
	if !between(f.Caption, model.PostCaptionMin, model.PostCaptionMax) {
		errs["caption"] = "Caption must be between 50 and 500 characters"
	}
	if creating && !f.HasImage {
		errs["image"] = "Image is required"
	}

	return errs
}

// Contact validates contact and partnership submissions; both forms share
// the same shape and rules.
func Contact(f model.ContactForm) FieldErrors {
	errs := FieldErrors{}

	if !between(f.FirstName, model.ContactNameMin, model.ContactNameMax) {
		errs["firstName"] = "First name must be between 3 and 20 characters"
	}
	if !between(f.LastName, model.ContactNameMin, model.ContactNameMax) {
		errs["lastName"] = "Last name must be between 3 and 20 characters"
	}
	if !emailPattern.MatchString(f.Email) || utf8.RuneCountInString(f.Email) > model.ContactEmailMax {
		errs["email"] = "Please enter a valid email"
	}
	if f.Phone != "" && !digitsPattern.MatchString(f.Phone) {
		errs["phone"] = "Phone number must contain only digits"
	}
	if !between(f.Subject, model.ContactSubjectMin, model.ContactSubjectMax) {
		errs["subject"] = "Subject must be between 3 and 20 characters"
	}
	if !between(f.Message, model.ContactMessageMin, model.ContactMessageMax) {
		errs["message"] = "Message must be between 10 and 500 characters"
	}

	return errs
}

// Signup validates an account-creation submission.
func Signup(f model.SignupForm) FieldErrors {
	errs := FieldErrors{}

	if !between(f.Username, model.UsernameMin, model.UsernameMax) {
		errs["username"] = "Username must be between 3 and 20 characters"
	}
	if !emailPattern.MatchString(f.Email) || utf8.RuneCountInString(f.Email) > model.ContactEmailMax {
		errs["email"] = "Please enter a valid email"
	}
	if !between(f.Password, model.PasswordMin, model.PasswordMax) {
		errs["password"] = "Password must be between 8 and 25 characters"
	}
	if f.ConfirmPassword != f.Password {
		errs["confirmPassword"] = "Passwords must match"
	}
	if !between(f.Bio, model.BioMin, model.BioMax) {
		errs["bio"] = "Bio must be between 50 and 500 characters"
	}

	return errs
}

// Profile validates a profile update. Bio and username follow the signup
// rules; password fields are absent.
func Profile(f model.ProfileForm) FieldErrors {
	errs := FieldErrors{}

	if !between(f.Username, model.UsernameMin, model.UsernameMax) {
		errs["username"] = "Username must be between 3 and 20 characters"
	}
	if !between(f.Bio, model.BioMin, model.BioMax) {
		errs["bio"] = "Bio must be between 50 and 500 characters"
	}

	return errs
}
