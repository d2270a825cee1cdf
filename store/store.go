package store

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/samber/lo"
)

var ErrContactNotFound = errors.New("contact not found")

// Contact is one chat partner with analytics on disk.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// idRegex matches contact IDs and fragment names. Leading dots are rejected
// so IDs can never escape the contacts directory.
var idRegex = regexp.MustCompile(`^[\w@-][\w@.-]*$`)

func ValidID(s string) bool {
	return idRegex.MatchString(s)
}

func ValidKind(kind string) bool {
	return slices.Contains(consts.FragmentKinds, kind)
}

func DataFolder() string {
	return os.Getenv("DATA_FOLDER")
}

func ContactsRoot() string {
	return filepath.Join(DataFolder(), consts.ContactsDir)
}

func ContactDir(id string) string {
	return filepath.Join(ContactsRoot(), id)
}

func FragmentPath(contactID, kind, name string) string {
	return filepath.Join(ContactDir(contactID), kind, name+".json")
}

// SaveFragment writes one analytics fragment of a contact. The data must be a
// JSON object; it is stored as given.
func SaveFragment(contactID, kind, name string, data []byte) error {
	if !ValidID(contactID) {
		return fmt.Errorf("invalid contact id %q", contactID)
	}
	if !ValidKind(kind) {
		return fmt.Errorf("invalid fragment kind %q", kind)
	}
	if !ValidID(name) {
		return fmt.Errorf("invalid fragment name %q", name)
	}
	if _, err := normalize.ParseObject(data); err != nil {
		return fmt.Errorf("fragment %s/%s/%s: %w", contactID, kind, name, err)
	}

	filePath := FragmentPath(contactID, kind, name)
	if err := os.MkdirAll(filepath.Dir(filePath), consts.DirPermissions); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, consts.FilePermissions)
}

// fragmentFileRegex matches files like "hourly.json"
var fragmentFileRegex = regexp.MustCompile(`^([\w@-][\w@.-]*)\.json$`)

// LoadPayload merges all fragments of a contact into one payload. Kinds are
// merged basic, interactive, semantic; within a kind, files are merged in
// name order, so later files override fields of earlier ones.
func LoadPayload(contactID string) (*normalize.Payload, error) {
	if !ValidID(contactID) {
		return nil, ErrContactNotFound
	}
	dir := ContactDir(contactID)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, ErrContactNotFound
	}

	payload := normalize.NewPayload()
	for _, kind := range consts.FragmentKinds {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !fragmentFileRegex.MatchString(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, kind, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: skipping unreadable fragment %s: %v", path, err)
				continue
			}
			obj, err := normalize.ParseObject(data)
			if err != nil {
				log.Printf("Warning: skipping malformed fragment %s: %v", path, err)
				continue
			}
			payload.Merge(obj)
		}
	}
	return payload, nil
}

func contactsFilePath() string {
	return filepath.Join(DataFolder(), consts.ContactsFile)
}

// ListContacts returns the contacts named in contacts.json followed by any
// other contact directories in ID order. Contacts without a name are named
// after their ID.
func ListContacts() ([]Contact, error) {
	var listed []Contact
	data, err := os.ReadFile(contactsFilePath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &listed); err != nil {
			log.Printf("Warning: ignoring malformed %s: %v", consts.ContactsFile, err)
			listed = nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	listed = lo.Filter(listed, func(c Contact, _ int) bool { return ValidID(c.ID) })
	listed = lo.UniqBy(listed, func(c Contact) string { return c.ID })

	entries, err := os.ReadDir(ContactsRoot())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	known := lo.SliceToMap(listed, func(c Contact) (string, bool) { return c.ID, true })
	var extra []Contact
	for _, entry := range entries {
		if !entry.IsDir() || !ValidID(entry.Name()) || known[entry.Name()] {
			continue
		}
		extra = append(extra, Contact{ID: entry.Name()})
	}
	slices.SortFunc(extra, func(a, b Contact) int { return cmp.Compare(a.ID, b.ID) })

	return lo.Map(append(listed, extra...), func(c Contact, _ int) Contact {
		if c.Name == "" {
			c.Name = c.ID
		}
		return c
	}), nil
}

// SaveContacts replaces contacts.json.
func SaveContacts(contacts []Contact) error {
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return err
	}
	if dir := DataFolder(); dir != "" {
		if err := os.MkdirAll(dir, consts.DirPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(contactsFilePath(), data, consts.FilePermissions)
}

// FindContact returns the listed contact with the given ID.
func FindContact(id string) (Contact, error) {
	contacts, err := ListContacts()
	if err != nil {
		return Contact{}, err
	}
	c, ok := lo.Find(contacts, func(c Contact) bool { return c.ID == id })
	if !ok {
		return Contact{}, ErrContactNotFound
	}
	return c, nil
}
