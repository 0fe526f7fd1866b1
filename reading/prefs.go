package reading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"epubnav/prefs"
	"epubnav/settings/epub"
)

// editFunc builds preference change from command arguments following book.
type editFunc func(cmd *cli.Command) (func(m *prefs.MutablePreferences, s *epub.Settings) error, error)

// ShowPreferences prints reader's stored preferences.
func ShowPreferences(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "prefs")
	if err != nil {
		return err
	}
	defer b.Close()
	return writePreferences(b.saved.Preferences)
}

// SetPreference stores raw value of a preference. Value is taken as JSON
// when it parses, as plain string otherwise.
var SetPreference = editAction("set", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name, value := cmd.Args().Get(1), cmd.Args().Get(2)
	if len(name) == 0 || cmd.Args().Len() < 3 {
		return nil, errors.New("preference name and value are expected")
	}
	var raw any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		raw = value
	}
	return func(m *prefs.MutablePreferences, s *epub.Settings) error {
		if _, ok := s.Lookup(name); !ok {
			return fmt.Errorf("%s: %w", name, epub.ErrUnknownSetting)
		}
		m.SetRaw(name, raw)
		return nil
	}, nil
})

// RemovePreference drops preference, setting falls back to its default.
var RemovePreference = editAction("remove", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name := cmd.Args().Get(1)
	if len(name) == 0 {
		return nil, errors.New("preference name is expected")
	}
	return func(m *prefs.MutablePreferences, _ *epub.Settings) error {
		m.RemoveRaw(name)
		return nil
	}, nil
})

// TogglePreference flips toggle setting or enumeration value.
var TogglePreference = editAction("toggle", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name, value := cmd.Args().Get(1), cmd.Args().Get(2)
	if len(name) == 0 {
		return nil, errors.New("setting name is expected")
	}
	return func(m *prefs.MutablePreferences, s *epub.Settings) error {
		return s.Toggle(m, name, value)
	}, nil
})

// IncrementPreference steps range setting up.
var IncrementPreference = editAction("increment", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name := cmd.Args().Get(1)
	if len(name) == 0 {
		return nil, errors.New("setting name is expected")
	}
	return func(m *prefs.MutablePreferences, s *epub.Settings) error {
		return s.Increment(m, name)
	}, nil
})

// DecrementPreference steps range setting down.
var DecrementPreference = editAction("decrement", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name := cmd.Args().Get(1)
	if len(name) == 0 {
		return nil, errors.New("setting name is expected")
	}
	return func(m *prefs.MutablePreferences, s *epub.Settings) error {
		return s.Decrement(m, name)
	}, nil
})

// ActivatePreference makes setting take effect changing the preferences it
// depends on.
var ActivatePreference = editAction("activate", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	name := cmd.Args().Get(1)
	if len(name) == 0 {
		return nil, errors.New("setting name is expected")
	}
	return func(m *prefs.MutablePreferences, s *epub.Settings) error {
		return s.Activate(m, name)
	}, nil
})

// ApplyPreset applies named preset.
var ApplyPreset = editAction("preset", func(cmd *cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	p, err := epub.FindPreset(cmd.Args().Get(1))
	if err != nil {
		return nil, err
	}
	return func(m *prefs.MutablePreferences, _ *epub.Settings) error {
		p.Apply(m)
		return nil
	}, nil
})

// ResetPreferences removes all reader's preferences.
var ResetPreferences = editAction("reset", func(*cli.Command) (func(*prefs.MutablePreferences, *epub.Settings) error, error) {
	return func(m *prefs.MutablePreferences, _ *epub.Settings) error {
		m.Clear()
		return nil
	}, nil
})

// editAction turns edit into command action. Change goes through navigator
// session, so it is saved exactly like edits made while reading.
func editAction(name string, edit editFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		fn, err := edit(cmd)
		if err != nil {
			return err
		}
		b, err := openBook(ctx, cmd, "prefs")
		if err != nil {
			return err
		}
		defer b.Close()

		n, err := b.session(ctx, nil)
		if err != nil {
			return err
		}
		defer n.Close(context.WithoutCancel(ctx))

		if err := n.Edit(ctx, fn); err != nil {
			return fmt.Errorf("unable to %s preferences: %w", name, err)
		}
		p, err := n.Preferences()
		if err != nil {
			return err
		}
		b.log.Info("Preferences changed", zap.String("edit", name), zap.Stringer("preferences", p))
		return writePreferences(p)
	}
}

func writePreferences(p prefs.Preferences) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\n", data)
	return err
}
