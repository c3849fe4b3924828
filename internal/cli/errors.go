package cli

import "errors"

// CLI errors.
var (
	errFileRequired       = errors.New("file is required")
	errCardNumberRequired = errors.New("card number is required")
	errInvalidCardNumber  = errors.New("card number must be a positive integer")
	errTooManyArgs        = errors.New("too many arguments")
	errNothingToEdit      = errors.New("nothing to edit: pass --front and/or --back")
	errUnknownFormat      = errors.New("unknown format (must be list|csv)")
	errNoEditorFound      = errors.New("no editor found (set $EDITOR or editor in config)")
	errEditorFailed       = errors.New("editor failed")
)
