// Package cleanse implements the type detection and coercion stages that
// clean loosely-typed tabular data.
//
// A frame first passes through the standardizer, which maps every cell to
// either the canonical missing marker or a trimmed text token, with
// null-vocabulary and boolean-vocabulary spellings normalized. Four typed
// transformers then each decide, per column, whether the column belongs to
// their semantic type: a column is claimed iff every non-missing cell
// parses and at least one non-missing cell exists. A claimed column has
// all its cells coerced and its missing cells rewritten to the type's
// empty representation; a rejected column is left byte for byte untouched
// so a later stage can still claim it. Columns with zero non-missing cells
// are never claimed by the numeric, date, or boolean stages; the text
// stage is a total catch-all and guarantees every column ends up typed.
//
// Cell-level parse failures are not errors. They are local signals that
// disqualify the whole column for that type, and no partial coercion ever
// leaks out of a rejected attempt.
package cleanse
