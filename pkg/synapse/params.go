package synapse

import (
	"encoding/json"
)

// ResolveParams extracts, coerces and validates the declared parameters
// from the request. Arguments come back indexed by slot with unreferenced
// slots left nil. Validation failures accumulate across every descriptor
// instead of short-circuiting; a non-empty error list means the handler
// must not run.
func ResolveParams(descriptors []ParamDescriptor, c RequestContext) (Args, []FieldError) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	maxSlot := 0
	for _, d := range descriptors {
		if d.Slot > maxSlot {
			maxSlot = d.Slot
		}
	}
	args := make(Args, maxSlot+1)

	var errs []FieldError
	var body any
	var bodyErr *FieldError
	bodyLoaded := false

	for _, d := range descriptors {
		var raw any
		switch d.Source {
		case ParameterSourceBody:
			if !bodyLoaded {
				body, bodyErr = readBody(c)
				bodyLoaded = true
				if bodyErr != nil {
					errs = append(errs, *bodyErr)
				}
			}
			if bodyErr != nil {
				continue
			}
			raw = body
		case ParameterSourceQuery:
			if c.Query().Has(d.Name) {
				raw = c.QueryParam(d.Name)
			}
		case ParameterSourcePath:
			if v := c.Param(d.Name); v != "" {
				raw = v
			}
		}

		if d.Schema == nil {
			args[d.Slot] = raw
			continue
		}

		value, ferrs := d.Schema.Coerce(raw)
		if len(ferrs) > 0 {
			errs = append(errs, labelErrors(ferrs, d)...)
			continue
		}
		args[d.Slot] = value
	}

	return args, errs
}

// readBody parses the whole request body as JSON. An absent body yields
// nil without an error so schemas can report required fields themselves.
func readBody(c RequestContext) (any, *FieldError) {
	data := c.Request().Body()
	if len(data) == 0 {
		return nil, nil
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &FieldError{Field: "body", Message: "invalid JSON body"}
	}
	return parsed, nil
}

// labelErrors fills in the parameter name on errors whose schema did not
// name a field
func labelErrors(ferrs []FieldError, d ParamDescriptor) []FieldError {
	label := d.Name
	if label == "" && d.Source == ParameterSourceBody {
		label = "body"
	}
	for i := range ferrs {
		if ferrs[i].Field == "" {
			ferrs[i].Field = label
		}
	}
	return ferrs
}
