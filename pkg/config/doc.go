/*
Package config loads patch definitions for patchrc.

	            +-------------+
	            |   Config    |
	            |  (patches)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+  +----+----+  +----+----+
	|   YAML   |  |   HCL   |  |  JSON   |
	|  Parser  |  | Parser  |  | Parser  |
	+----------+  +---------+  +---------+

A config names a root directory and a list of patches. Each patch matches
files with doublestar globs relative to the root and applies its rules in
order:

	root: ${APP_ROOT}
	patches:
	  - name: page-message-item
	    files: [app/page.js]
	    output: app/page.refactored.js
	    rules:
	      - old: "import Toast from './Toast';"
	        new: "import Toast from './components/chat/Toast';"
	      - kind: span
	        anchor: "messages.map((message, index) => ("
	        new_file: blocks/message-item.jsx

Span rules replace everything from the start of the anchor to the end of the
delimiter-balanced span it opens. The depth open after the anchor is derived
from the anchor itself unless depth is set.

Environment references are expanded in root, files, output and new_file, never
in replacement text. A .env file can be loaded first with LoadEnvFiles.

In HCL, "${" starts a template interpolation, so replacement text containing
JavaScript template literals must escape it as "$${". The environment is
available as the env object:

	root = env.APP_ROOT

	patch "page-message-item" {
	  files = ["app/page.js"]

	  rule {
	    kind   = "span"
	    anchor = "messages.map((message, index) => ("
	    new    = <<EOT
	messages.map((message, index) => (<MessageItem message={message} />))
	EOT
	  }
	}
*/
package config
