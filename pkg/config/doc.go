// Package config loads declarative patch sets for patchrc.
//
//	            +-------------+
//	            |   Config    |
//	            | (patchsets) |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|   HCL   |   |  YAML   |   |  JSON   |
//	+---------+   +---------+   +---------+
//
// 🎯 Purpose:
// - Reads patch sets from .hcl, .yaml/.yml, .json or an extension-less .patchrc
// - Validates struct shape and every compiled rule
// - Expands file globs into ordered (path, patch set) pairs
//
// 🔄 Flow:
// 1. LoadConfig picks a decoder by extension
// 2. Validate checks required fields and rule shape
// 3. Build compiles rules into patch.Set values
// 4. Pairs expands globs against the target root
//
// 📝 Example (.patchrc.hcl):
//
//	root   = "public"
//	strict = false
//
//	patchset "checkout-fixes" {
//	  file = "js/cart.js"
//
//	  rule "extra-brace" {
//	    description = "drop the stray closing brace"
//	    regex       = "\\);\\s*\\}\\s*\\}"
//	    replace     = ");\n}"
//	  }
//	}
//
//	patchset "external-links" {
//	  files = ["**/*.html"]
//
//	  rule "add-rel" {
//	    match   = "target=\"_blank\">"
//	    replace = "target=\"_blank\" rel=\"noopener\">"
//	    multi   = true
//	  }
//	}
//
// HCL files can read environment variables through env, e.g. root = env.SITE_ROOT.
package config
