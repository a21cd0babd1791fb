package engine

import (
	"fmt"
	"strings"

	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/ident"
)

// Normalized values: NULL and empty text become a single space, numbers
// render per Options, timestamps as MMDDYYYYHH24MISS (UTC for zoned
// types), booleans as '1'/'0', text trimmed, binaries as lowercase MD5 hex.

// valueKind is the rendering family for a column. It is finer than
// datatype.Classify because timestamps and binaries need their own SQL.
type valueKind int

const (
	kindText valueKind = iota
	kindBoolean
	kindNumeric
	kindTimestamp
	kindBinary
)

func kindOf(col *column.Column) valueKind {
	class, ok := datatype.Lookup(col.DataType)
	if !ok {
		class = col.DataClass
	}
	switch class {
	case datatype.Boolean:
		return kindBoolean
	case datatype.Numeric:
		return kindNumeric
	case datatype.Timestamp:
		return kindTimestamp
	case datatype.Binary:
		return kindBinary
	default:
		return kindText
	}
}

func colRef(native ident.NativeCase, quoteChar string, col *column.Column) string {
	if col.PreserveCase {
		return ident.QuoteAlways(col.Name, quoteChar)
	}
	return ident.Quote(native, col.Name, quoteChar)
}

// --- postgres ---

type postgresBuilder struct{ opts Options }

func (b postgresBuilder) BuildValueExpression(col *column.Column) string {
	c := colRef(ident.Lower, `"`, col)
	switch kindOf(col) {
	case kindBoolean:
		return fmt.Sprintf("case when coalesce(%s::text,'0') in ('true','1') then '1' else '0' end", c)
	case kindNumeric:
		if b.opts.standard() {
			return fmt.Sprintf("coalesce(trim(to_char(trim_scale(%s::numeric),'%s')),' ')", c, b.opts.StandardNumberFormat)
		}
		return fmt.Sprintf("coalesce(trim(to_char(%s::numeric,'0.9999999999EEEE')),' ')", c)
	case kindTimestamp:
		if datatype.HasTimeZone(col.DataType) {
			return fmt.Sprintf("coalesce(to_char(%s at time zone 'UTC','MMDDYYYYHH24MISS'),' ')", c)
		}
		return fmt.Sprintf("coalesce(to_char(%s,'MMDDYYYYHH24MISS'),' ')", c)
	case kindBinary:
		return fmt.Sprintf("coalesce(md5(%s),' ')", c)
	default:
		return fmt.Sprintf("coalesce(case when length(coalesce(trim(%[1]s::text),''))=0 then ' ' else trim(%[1]s::text) end,' ')", c)
	}
}

// --- oracle ---

type oracleBuilder struct{ opts Options }

func (b oracleBuilder) BuildValueExpression(col *column.Column) string {
	c := colRef(ident.Upper, `"`, col)
	switch kindOf(col) {
	case kindBoolean:
		return fmt.Sprintf("case when nvl(to_char(%s),'0') in ('1','TRUE','true') then '1' else '0' end", c)
	case kindNumeric:
		if b.opts.standard() {
			return fmt.Sprintf("nvl(trim(to_char(%s,'%s')),' ')", c, b.opts.StandardNumberFormat)
		}
		return fmt.Sprintf("nvl(trim(to_char(%s,'0.9999999999EEEE')),' ')", c)
	case kindTimestamp:
		if datatype.HasTimeZone(col.DataType) {
			return fmt.Sprintf("nvl(to_char(sys_extract_utc(%s),'MMDDYYYYHH24MISS'),' ')", c)
		}
		return fmt.Sprintf("nvl(to_char(%s,'MMDDYYYYHH24MISS'),' ')", c)
	case kindBinary:
		if strings.EqualFold(col.DataType, "raw") {
			return fmt.Sprintf("nvl(lower(rawtohex(standard_hash(%s,'MD5'))),' ')", c)
		}
		return fmt.Sprintf("case when %[1]s is null or dbms_lob.getlength(%[1]s)=0 then ' ' else lower(dbms_crypto.hash(%[1]s,2)) end", c)
	default:
		return fmt.Sprintf("nvl(trim(%s),' ')", c)
	}
}

// --- mysql ---

type mysqlBuilder struct{ opts Options }

const mysqlTimestampFormat = "'%m%d%Y%H%i%S'"

func (b mysqlBuilder) BuildValueExpression(col *column.Column) string {
	c := colRef(ident.Lower, "`", col)
	switch kindOf(col) {
	case kindBoolean:
		return fmt.Sprintf("case when coalesce(cast(%s as char),'0') in ('1','true') then '1' else '0' end", c)
	case kindNumeric:
		if b.opts.standard() {
			precision, scale := b.opts.decimalSpec()
			return fmt.Sprintf("coalesce(cast(%s as decimal(%d,%d)),' ')", c, precision, scale)
		}
		// MySQL has no scientific format mask, so mantissa and exponent are
		// assembled by hand.
		return fmt.Sprintf("coalesce(if(%[1]s=0,'0.0000000000e+00',concat(if(%[1]s<0,'-',''),"+
			"format(abs(%[1]s)/pow(10,floor(log10(abs(%[1]s)))),10),'e',"+
			"if(floor(log10(abs(%[1]s)))<0,'-','+'),lpad(abs(floor(log10(abs(%[1]s)))),2,'0'))),' ')", c)
	case kindTimestamp:
		switch strings.ToLower(col.DataType) {
		case "year", "time":
			return "coalesce(cast(" + c + " as char),' ')"
		case "timestamp":
			// timestamp values are stored in UTC and shifted to the session zone on read.
			return "coalesce(date_format(convert_tz(" + c + ",@@session.time_zone,'+00:00')," + mysqlTimestampFormat + "),' ')"
		}
		return "coalesce(date_format(" + c + "," + mysqlTimestampFormat + "),' ')"
	case kindBinary:
		return fmt.Sprintf("coalesce(md5(%s),' ')", c)
	default:
		return fmt.Sprintf("coalesce(case when length(trim(%[1]s))=0 then ' ' else trim(%[1]s) end,' ')", c)
	}
}

// --- mssql ---

type mssqlBuilder struct{ opts Options }

func (b mssqlBuilder) BuildValueExpression(col *column.Column) string {
	c := colRef(ident.Lower, `"`, col)
	switch kindOf(col) {
	case kindBoolean:
		return fmt.Sprintf("case when coalesce(cast(%s as varchar(5)),'0') in ('1','true') then '1' else '0' end", c)
	case kindNumeric:
		if b.opts.standard() {
			return fmt.Sprintf("coalesce(format(%s,'%s'),' ')", c, b.opts.StandardNumberFormat)
		}
		return fmt.Sprintf("coalesce(lower(format(cast(%s as float),'0.0000000000E+00')),' ')", c)
	case kindTimestamp:
		if datatype.HasTimeZone(col.DataType) {
			return fmt.Sprintf("coalesce(format(switchoffset(%s,'+00:00'),'MMddyyyyHHmmss'),' ')", c)
		}
		return fmt.Sprintf("coalesce(format(%s,'MMddyyyyHHmmss'),' ')", c)
	case kindBinary:
		return fmt.Sprintf("coalesce(lower(convert(varchar(max),hashbytes('MD5',%s),2)),' ')", c)
	default:
		return fmt.Sprintf("coalesce(case when len(ltrim(rtrim(cast(%[1]s as nvarchar(max)))))=0 then ' ' else ltrim(rtrim(cast(%[1]s as nvarchar(max)))) end,' ')", c)
	}
}

// --- db2 ---

type db2Builder struct{ opts Options }

func (b db2Builder) BuildValueExpression(col *column.Column) string {
	c := colRef(ident.Upper, `"`, col)
	switch kindOf(col) {
	case kindBoolean:
		return fmt.Sprintf("case when coalesce(cast(%s as varchar(5)),'0') in ('1','TRUE','true') then '1' else '0' end", c)
	case kindNumeric:
		if b.opts.standard() {
			return fmt.Sprintf("coalesce(trim(varchar_format(%s,'%s')),' ')", c, b.opts.StandardNumberFormat)
		}
		return fmt.Sprintf("coalesce(lower(trim(cast(cast(%s as double) as varchar(42)))),' ')", c)
	case kindTimestamp:
		return fmt.Sprintf("coalesce(varchar_format(%s,'MMDDYYYYHH24MISS'),' ')", c)
	case kindBinary:
		return fmt.Sprintf("coalesce(lower(hex(hash_md5(%s))),' ')", c)
	default:
		return fmt.Sprintf("coalesce(case when length(trim(%[1]s))=0 then ' ' else trim(%[1]s) end,' ')", c)
	}
}
