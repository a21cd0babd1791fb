package datatype

// Membership tables, keyed by lowercase type name. Built once at init and
// only ever read afterwards.
var (
	booleanTypes = setOf("bool", "boolean")

	numericTypes = setOf(
		"bigint", "bigserial", "binary_double", "binary_float", "dec", "decimal",
		"double", "double precision", "fixed", "float", "float4", "float8", "int",
		"integer", "int2", "int4", "int8", "money", "number", "numeric", "real",
		"serial", "smallint", "smallmoney", "smallserial", "tinyint",
	)

	characterTypes = setOf(
		"bpchar", "char", "character", "clob", "json", "jsonb", "nchar", "nclob",
		"ntext", "nvarchar", "nvarchar2", "text", "varchar", "varchar2", "xml",
	)

	timestampTypes = setOf(
		"date", "datetime", "datetimeoffset", "datetime2", "smalldatetime", "time",
		"timestamp", "timestamptz", "timestamp(0)", "timestamp(1) with time zone",
		"timestamp(3)", "timestamp(3) with time zone", "timestamp(6)",
		"timestamp(6) with time zone", "timestamp(9)", "timestamp(9) with time zone",
		"year",
	)

	binaryTypes = setOf("bytea", "binary", "blob", "raw", "varbinary")

	unsupportedTypes = setOf(
		"bfile", "bit", "cursor", "enum", "hierarchyid", "image", "rowid",
		"rowversion", "set", "sql_variant", "uniqueidentifier", "long", "long raw",
	)

	reservedWords = setOf(
		"add", "all", "alter", "and", "any", "as", "asc", "at", "authid", "between",
		"by", "character", "check", "cluster", "column", "comment", "connect",
		"constraint", "continue", "create", "cross", "current", "current_user",
		"cursor", "database", "date", "default", "delete", "desc", "distinct",
		"double", "else", "end", "except", "exception", "exists", "external",
		"fetch", "for", "from", "grant", "group", "having", "identified", "if", "in",
		"index", "insert", "integer", "intersect", "into", "is", "join", "like",
		"lock", "long", "loop", "modify", "natural", "no", "not", "null", "on",
		"open", "option", "or", "order", "outer", "package", "prior", "privileges",
		"procedure", "public", "rename", "replace", "rowid", "rownum", "schema",
		"select", "session", "set", "sql", "start", "statement", "sys", "table",
		"then", "to", "trigger", "union", "unique", "update", "user", "values",
		"varchar", "varchar2", "view", "when", "where", "with", "xor",
	)
)

// lookupOrder is the order Lookup walks the tables in. The sets are disjoint,
// so the order only matters for readability.
var lookupOrder = []struct {
	class Class
	set   map[string]struct{}
}{
	{Boolean, booleanTypes},
	{Numeric, numericTypes},
	{Timestamp, timestampTypes},
	{Character, characterTypes},
	{Binary, binaryTypes},
	{Unsupported, unsupportedTypes},
}

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Names returns the members of the table for class, in no particular order.
// The returned slice is a copy; mutating it does not affect classification.
func Names(class Class) []string {
	var set map[string]struct{}
	for _, t := range lookupOrder {
		if t.class == class {
			set = t.set
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}
