package psqlbuilder

import sq "github.com/Masterminds/squirrel"

// Postgres-flavoured squirrel builder ($1, $2, ... placeholders).
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func Select(columns ...string) sq.SelectBuilder {
	return builder.Select(columns...)
}

func Insert(into string) sq.InsertBuilder {
	return builder.Insert(into)
}

func Update(table string) sq.UpdateBuilder {
	return builder.Update(table)
}

func Delete(from string) sq.DeleteBuilder {
	return builder.Delete(from)
}
