package engine

// Every columns query returns, in order: column_name, data_type,
// data_length, data_precision, data_scale, nullable ('Y'/'N'), pk ('Y'/'N').
// Rows come back in the table's column order.

const postgresColumnsSQL = `
SELECT a.attname AS column_name,
       t.typname AS data_type,
       CASE WHEN t.typname IN ('varchar', 'bpchar') AND a.atttypmod > 4 THEN a.atttypmod - 4
            WHEN a.attlen > 0 THEN a.attlen
            ELSE 0 END AS data_length,
       coalesce(information_schema._pg_numeric_precision(a.atttypid, a.atttypmod), 0) AS data_precision,
       coalesce(information_schema._pg_numeric_scale(a.atttypid, a.atttypmod), 0) AS data_scale,
       CASE WHEN a.attnotnull THEN 'N' ELSE 'Y' END AS nullable,
       CASE WHEN EXISTS (SELECT 1
                           FROM pg_catalog.pg_index i
                          WHERE i.indrelid = c.oid
                            AND i.indisprimary
                            AND a.attnum = ANY (i.indkey)) THEN 'Y' ELSE 'N' END AS pk
  FROM pg_catalog.pg_attribute a
  JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
  JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
  JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
 WHERE n.nspname = $1
   AND c.relname = $2
   AND a.attnum > 0
   AND NOT a.attisdropped
 ORDER BY a.attnum`

const postgresTablesSQL = `
SELECT c.relname
  FROM pg_catalog.pg_class c
  JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
 WHERE n.nspname = $1
   AND c.relkind IN ('r', 'p')
 ORDER BY c.relname`

const oracleColumnsSQL = `
SELECT c.column_name,
       lower(c.data_type) AS data_type,
       c.data_length,
       nvl(c.data_precision, 0) AS data_precision,
       nvl(c.data_scale, 0) AS data_scale,
       c.nullable,
       CASE WHEN pk.column_name IS NULL THEN 'N' ELSE 'Y' END AS pk
  FROM all_tab_columns c
  LEFT JOIN (SELECT acc.owner, acc.table_name, acc.column_name
               FROM all_constraints ac
               JOIN all_cons_columns acc
                 ON acc.owner = ac.owner
                AND acc.constraint_name = ac.constraint_name
              WHERE ac.constraint_type = 'P') pk
    ON pk.owner = c.owner
   AND pk.table_name = c.table_name
   AND pk.column_name = c.column_name
 WHERE lower(c.owner) = lower(:1)
   AND lower(c.table_name) = lower(:2)
 ORDER BY c.column_id`

const oracleTablesSQL = `
SELECT table_name
  FROM all_tables
 WHERE lower(owner) = lower(:1)
 ORDER BY table_name`

const mysqlColumnsSQL = `
SELECT column_name,
       data_type,
       coalesce(character_maximum_length, 0) AS data_length,
       coalesce(numeric_precision, 0) AS data_precision,
       coalesce(numeric_scale, 0) AS data_scale,
       CASE WHEN is_nullable = 'YES' THEN 'Y' ELSE 'N' END AS nullable,
       CASE WHEN column_key = 'PRI' THEN 'Y' ELSE 'N' END AS pk
  FROM information_schema.columns
 WHERE lower(table_schema) = lower(?)
   AND lower(table_name) = lower(?)
 ORDER BY ordinal_position`

const mysqlTablesSQL = `
SELECT table_name
  FROM information_schema.tables
 WHERE lower(table_schema) = lower(?)
   AND table_type = 'BASE TABLE'
 ORDER BY table_name`

const mssqlColumnsSQL = `
SELECT c.column_name,
       c.data_type,
       coalesce(c.character_maximum_length, 0) AS data_length,
       coalesce(c.numeric_precision, 0) AS data_precision,
       coalesce(c.numeric_scale, 0) AS data_scale,
       CASE WHEN c.is_nullable = 'YES' THEN 'Y' ELSE 'N' END AS nullable,
       CASE WHEN pk.column_name IS NULL THEN 'N' ELSE 'Y' END AS pk
  FROM information_schema.columns c
  LEFT JOIN (SELECT kcu.table_schema, kcu.table_name, kcu.column_name
               FROM information_schema.table_constraints tc
               JOIN information_schema.key_column_usage kcu
                 ON kcu.constraint_schema = tc.constraint_schema
                AND kcu.constraint_name = tc.constraint_name
              WHERE tc.constraint_type = 'PRIMARY KEY') pk
    ON pk.table_schema = c.table_schema
   AND pk.table_name = c.table_name
   AND pk.column_name = c.column_name
 WHERE lower(c.table_schema) = lower(@p1)
   AND lower(c.table_name) = lower(@p2)
 ORDER BY c.ordinal_position`

const mssqlTablesSQL = `
SELECT table_name
  FROM information_schema.tables
 WHERE lower(table_schema) = lower(@p1)
   AND table_type = 'BASE TABLE'
 ORDER BY table_name`

const db2ColumnsSQL = `
SELECT c.colname AS column_name,
       lower(c.typename) AS data_type,
       c.length AS data_length,
       CASE WHEN c.typename IN ('DECIMAL', 'NUMERIC', 'DECFLOAT') THEN c.length ELSE 0 END AS data_precision,
       c.scale AS data_scale,
       c.nulls AS nullable,
       CASE WHEN c.keyseq IS NULL THEN 'N' ELSE 'Y' END AS pk
  FROM syscat.columns c
 WHERE lower(trim(c.tabschema)) = lower(?)
   AND lower(c.tabname) = lower(?)
 ORDER BY c.colno`

const db2TablesSQL = `
SELECT tabname
  FROM syscat.tables
 WHERE lower(trim(tabschema)) = lower(?)
   AND type = 'T'
 ORDER BY tabname`
