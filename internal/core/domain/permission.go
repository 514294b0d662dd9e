package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Category names a resource family a permission applies to.
type Category string

// Action names an operation inside a category.
type Action string

const (
	CategorySites         Category = "sites"
	CategoryPlugins       Category = "plugins"
	CategoryMembers       Category = "members"
	CategoryTeam          Category = "team"
	CategoryNotifications Category = "notifications"
)

const (
	ActionView           Action = "view"
	ActionCreate         Action = "create"
	ActionEdit           Action = "edit"
	ActionDelete         Action = "delete"
	ActionShare          Action = "share"
	ActionManagePlugins  Action = "manage_plugins"
	ActionInstall        Action = "install"
	ActionUninstall      Action = "uninstall"
	ActionActivate       Action = "activate"
	ActionDeactivate     Action = "deactivate"
	ActionManageVersions Action = "manage_versions"
	ActionInvite         Action = "invite"
	ActionRemove         Action = "remove"
	ActionManageRoles    Action = "manage_roles"
	ActionEditSettings   Action = "edit_settings"
)

// CategoryActions pairs a category with its fixed action list.
type CategoryActions struct {
	Category Category `json:"category"`
	Actions  []Action `json:"actions"`
}

// vocabulary is the only place the category/action set is defined.
var vocabulary = []CategoryActions{
	{Category: CategorySites, Actions: []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionShare, ActionManagePlugins}},
	{Category: CategoryPlugins, Actions: []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionShare, ActionInstall, ActionUninstall, ActionActivate, ActionDeactivate, ActionManageVersions}},
	{Category: CategoryMembers, Actions: []Action{ActionView, ActionInvite, ActionEdit, ActionRemove, ActionManageRoles}},
	{Category: CategoryTeam, Actions: []Action{ActionView, ActionEditSettings, ActionManageRoles}},
	{Category: CategoryNotifications, Actions: []Action{ActionView, ActionCreate, ActionDelete}},
}

var vocabularyIndex = func() map[Category]map[Action]struct{} {
	idx := make(map[Category]map[Action]struct{}, len(vocabulary))
	for _, entry := range vocabulary {
		actions := make(map[Action]struct{}, len(entry.Actions))
		for _, action := range entry.Actions {
			actions[action] = struct{}{}
		}
		idx[entry.Category] = actions
	}
	return idx
}()

// Vocabulary returns a copy of the fixed category/action vocabulary in display order.
func Vocabulary() []CategoryActions {
	out := make([]CategoryActions, 0, len(vocabulary))
	for _, entry := range vocabulary {
		actions := make([]Action, len(entry.Actions))
		copy(actions, entry.Actions)
		out = append(out, CategoryActions{Category: entry.Category, Actions: actions})
	}
	return out
}

// IsKnownPermission reports whether the pair belongs to the vocabulary.
func IsKnownPermission(category Category, action Action) bool {
	actions, ok := vocabularyIndex[category]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// ShapeError reports a permission matrix that does not match the vocabulary.
type ShapeError struct {
	Category Category
	Action   Action
	Reason   string
}

func (e *ShapeError) Error() string {
	switch {
	case e.Category == "":
		return fmt.Sprintf("permission matrix: %s", e.Reason)
	case e.Action == "":
		return fmt.Sprintf("permission matrix: category %q: %s", e.Category, e.Reason)
	default:
		return fmt.Sprintf("permission matrix: %s.%s: %s", e.Category, e.Action, e.Reason)
	}
}

// UnknownPermissionError is returned when a caller asks about a pair outside the vocabulary.
// It signals a programming error in the caller, not a runtime condition.
type UnknownPermissionError struct {
	Category Category
	Action   Action
}

func (e *UnknownPermissionError) Error() string {
	return fmt.Sprintf("unknown permission %s.%s", e.Category, e.Action)
}

// Matrix maps category -> action -> grant.
type Matrix map[Category]map[Action]bool

// DefaultMatrix returns a matrix with every action denied except team.view.
func DefaultMatrix() Matrix {
	m := filledMatrix(false)
	m[CategoryTeam][ActionView] = true
	return m
}

// FullMatrix returns a matrix granting every action.
func FullMatrix() Matrix {
	return filledMatrix(true)
}

func filledMatrix(value bool) Matrix {
	m := make(Matrix, len(vocabulary))
	for _, entry := range vocabulary {
		actions := make(map[Action]bool, len(entry.Actions))
		for _, action := range entry.Actions {
			actions[action] = value
		}
		m[entry.Category] = actions
	}
	return m
}

// ValidateMatrix checks the matrix against the vocabulary. Every category present must
// enumerate every action of that category, and no unknown keys are allowed.
func ValidateMatrix(m Matrix) error {
	if m == nil {
		return &ShapeError{Reason: "matrix is nil"}
	}

	for _, category := range sortedCategories(m) {
		known, ok := vocabularyIndex[category]
		if !ok {
			return &ShapeError{Category: category, Reason: "unknown category"}
		}

		actions := m[category]
		for _, action := range sortedActions(actions) {
			if _, ok := known[action]; !ok {
				return &ShapeError{Category: category, Action: action, Reason: "unknown action"}
			}
		}

		for _, entry := range vocabulary {
			if entry.Category != category {
				continue
			}
			for _, action := range entry.Actions {
				if _, ok := actions[action]; !ok {
					return &ShapeError{Category: category, Action: action, Reason: "missing action"}
				}
			}
		}
	}

	return nil
}

// Validate is a method form of ValidateMatrix.
func (m Matrix) Validate() error {
	return ValidateMatrix(m)
}

// Allows looks up a grant. Absent categories or actions are denied; pairs outside the
// vocabulary yield an UnknownPermissionError.
func (m Matrix) Allows(category Category, action Action) (bool, error) {
	if !IsKnownPermission(category, action) {
		return false, &UnknownPermissionError{Category: category, Action: action}
	}
	actions, ok := m[category]
	if !ok {
		return false, nil
	}
	return actions[action], nil
}

// Normalize returns a copy in which every vocabulary category is present. Missing
// categories and actions are filled with false; unknown keys are dropped.
func (m Matrix) Normalize() Matrix {
	out := filledMatrix(false)
	for category, actions := range m {
		target, ok := out[category]
		if !ok {
			continue
		}
		for action, granted := range actions {
			if _, ok := target[action]; ok {
				target[action] = granted
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for category, actions := range m {
		copied := make(map[Action]bool, len(actions))
		for action, granted := range actions {
			copied[action] = granted
		}
		out[category] = copied
	}
	return out
}

// Equal compares two matrices grant by grant, treating missing entries as false.
func (m Matrix) Equal(other Matrix) bool {
	for _, entry := range vocabulary {
		for _, action := range entry.Actions {
			if m[entry.Category][action] != other[entry.Category][action] {
				return false
			}
		}
	}
	return true
}

// Grant returns a copy with the given pairs set to true. Unknown pairs are ignored.
func (m Matrix) Grant(pairs ...string) Matrix {
	out := m.Clone()
	if out == nil {
		out = make(Matrix)
	}
	for _, pair := range pairs {
		category, action, ok := ParsePermission(pair)
		if !ok || !IsKnownPermission(category, action) {
			continue
		}
		if out[category] == nil {
			out[category] = make(map[Action]bool)
		}
		out[category][action] = true
	}
	return out
}

// ParsePermission splits "category.action".
func ParsePermission(value string) (Category, Action, bool) {
	category, action, ok := strings.Cut(strings.TrimSpace(value), ".")
	if !ok || category == "" || action == "" {
		return "", "", false
	}
	return Category(category), Action(action), true
}

func sortedCategories(m Matrix) []Category {
	keys := make([]Category, 0, len(m))
	for category := range m {
		keys = append(keys, category)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedActions(actions map[Action]bool) []Action {
	keys := make([]Action, 0, len(actions))
	for action := range actions {
		keys = append(keys, action)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
