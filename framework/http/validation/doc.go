// Package validation checks flat form input against pipe-separated rule
// strings and flashes the outcome for the next request.
//
// # Basic Usage
//
//	rules := validation.NewRuleSet().
//	    Field("name", "required|max_length=20",
//	        "Name is required",
//	        "Name max length 20 letters").
//	    MustBuild()
//
//	engine := validation.New(validation.WithLogger(log))
//	res, err := engine.Run(ctx, flash, validation.Params{"name": "Alice"}, rules)
//	switch {
//	case errors.Is(err, validation.ErrNotRun):
//	    // nothing to validate
//	case err != nil:
//	    // the flash store failed
//	case res.Fails():
//	    // redirect back; the form page reads validation.FormData(ctx, flash)
//	}
//
// # Rule Syntax
//
// A rule string is a list of tokens joined by "|". A token is a rule name,
// optionally followed by "=" and an argument. Only the first "=" splits, so
// the argument may itself contain "=". Each token is paired with the message
// at the same position; unknown rule names are skipped but still use up
// their message slot.
//
// # Available Rules
//
// Presence and type:
//   - required         — present; strings non-blank, collections non-empty
//   - is_numeric       — numeric value or numeric string (sign, fraction, exponent)
//   - integer          — native integer value (numeric strings fail)
//   - is_array         — present and a slice, array or map
//   - items_is_numeric — present collection whose items are all numeric
//
// Length (characters, not bytes):
//   - min_length=n
//   - max_length=n
//
// Comparison (numeric when both sides are numeric, else string order):
//   - great_than=x, less_than=x
//   - great_than_field=other, less_than_field=other
//
// Format:
//   - alpha, alpha_numeric, alpha_dash — Latin letters incl. common accents
//   - email
//   - in_array=a,b,c
//   - format_date=Y-m-d — PHP date() letters; value must round-trip exactly
//
// Apart from required, is_array, items_is_numeric and format_date, every rule
// passes when the field is absent.
//
// # Errors
//
// Result.Errors is keyed by field and token:
//
//	{"errors": {"name_max_length=20": "Name max length 20 letters"}}
package validation
