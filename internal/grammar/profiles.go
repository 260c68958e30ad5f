package grammar

const (
	slashComment = "//"
	blockOpen    = "/*"
	blockClose   = "*/"
)

var builtin = []Profile{
	{
		ID:       "go",
		Suffixes: []string{".go"},
		Query: `[
  (function_declaration name: (identifier)       @name)
  (method_declaration   name: (field_identifier) @name)
] @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:       "javascript",
		Suffixes: []string{".js", ".jsx", ".mjs", ".cjs"},
		Query: `[
  (function_declaration  (identifier)          @name)
  (variable_declarator   (identifier)          @name (arrow_function))
  (assignment_expression (identifier)          @name (arrow_function))
  (assignment_expression (member_expression)   @name (arrow_function))
  (class_declaration     (identifier)          @name)
  (method_definition     (property_identifier) @name)
] @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:           "typescript",
		Suffixes:     []string{".ts", ".mts", ".cts"},
		Query:        typescriptQuery,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:           "tsx",
		Suffixes:     []string{".tsx"},
		Query:        typescriptQuery,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:       "python",
		Suffixes: []string{".py", ".pyi"},
		Query: `[
  (function_definition name: (identifier) @name)
  (class_definition    name: (identifier) @name)
  (decorated_definition definition: (function_definition name: (identifier) @name))
  (decorated_definition definition: (class_definition    name: (identifier) @name))
] @body`,
		LineComment:  "#",
		OpenComment:  `"""`,
		CloseComment: `"""`,
	},
	{
		ID:       "c",
		Suffixes: []string{".c", ".h"},
		Query: `[
  (function_definition declarator: (function_declarator declarator: (identifier) @name))
  (function_definition declarator: (pointer_declarator
                         declarator: (function_declarator declarator: (identifier) @name)))
] @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:       "cpp",
		Suffixes: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Query: `(function_definition
  declarator: (function_declarator
    declarator: [(identifier) (field_identifier) (qualified_identifier)] @name)) @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:       "java",
		Suffixes: []string{".java"},
		Query: `[
  (method_declaration      name: (identifier) @name)
  (constructor_declaration name: (identifier) @name)
  (class_declaration       name: (identifier) @name)
] @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:       "csharp",
		Suffixes: []string{".cs"},
		Query: `[
  (method_declaration      name: (identifier) @name)
  (constructor_declaration name: (identifier) @name)
  (class_declaration       name: (identifier) @name)
] @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
	{
		ID:           "rust",
		Suffixes:     []string{".rs"},
		Query:        `(function_item name: (identifier) @name) @body`,
		LineComment:  slashComment,
		OpenComment:  blockOpen,
		CloseComment: blockClose,
	},
}

const typescriptQuery = `[
  (function_declaration  (identifier)          @name)
  (variable_declarator   (identifier)          @name (arrow_function))
  (assignment_expression (identifier)          @name (arrow_function))
  (assignment_expression (member_expression)   @name (arrow_function))
  (class_declaration     (type_identifier)     @name)
  (method_definition     (property_identifier) @name)
] @body`
