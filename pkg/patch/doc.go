/*
Package patch defines idempotent, pattern-based text rules and ordered sets of them.

	+-----------+      +-----------+      +-----------+
	|  Matcher  | ---> |   Rule    | ---> |    Set    |
	| (pattern) |      | (one fix) |      | (1 file)  |
	+-----------+      +-----------+      +-----------+

🎯 Purpose:
  - Describe a known textual defect once (the Matcher)
  - Describe its corrected form once (the Replacer)
  - Apply fixes in a declared order without touching the file system

🔄 Flow:
 1. A Set threads content through its Rules in order
 2. Each Rule finds the first occurrence (or all, when Multi is set)
 3. Matches are replaced left to right and the rule reports whether it applied
 4. A Rule that finds nothing reports skipped-no-match and changes nothing

⚡ Matching:
  - Literal patterns are exact about every non-whitespace character, while
    any run of whitespace in the pattern matches any run of whitespace (or
    none) in the content. Live files drift in indentation and trailing
    spaces; braces and literals do not.
  - Regexp patterns use RE2 syntax with multi-line anchors. Replacement
    templates for regexp matches expand $1 and ${name}; $$ is a literal $.

🔁 Idempotence:
A correct rule never matches its own output, so applying a Set twice yields
the same text as applying it once. Set.Validate catches the statically
detectable violations.

🔍 Example:

	set := &patch.Set{
		Name: "cart-brace",
		Path: "js/cart.js",
		Rules: []patch.Rule{{
			ID:          "extra-closing-brace",
			Description: "remove the stray brace after renderCart",
			Match:       patch.Literal("); \n}\n}"),
			Replace:     patch.Template(");\n}"),
		}},
	}

	fixed, results := set.Apply(content)
*/
package patch
