package tabular

import "github.com/nao1215/ddlinfer/domain/model"

// DescribeOptions controls how a dataset is turned into a schema.
type DescribeOptions struct {
	// Detailed distinguishes dates, times and booleans instead of folding them into text and datetime.
	Detailed bool
	// RequireComplete marks columns without empty sampled values as required.
	RequireComplete bool
}

// Describe infers a schema from a dataset. Types declared by the format take
// precedence over types inferred from values.
func Describe(ds *Dataset, opts DescribeOptions) *model.Schema {
	table := ds.Table
	var columns []model.ColumnInfo
	if opts.Detailed {
		columns = model.DescribeColumnsInfo(table.Header(), table.Records())
	} else {
		columns = model.InferColumnsInfo(table.Header(), table.Records())
	}

	for i := range columns {
		declared, ok := ds.Declared(i)
		if !ok {
			continue
		}
		if !opts.Detailed {
			declared = foldColumnType(declared)
		}
		columns[i].Type = declared
	}
	return model.NewSchema(columns, opts.RequireComplete)
}

// foldColumnType maps detailed types onto the basic set: text, integer, real, datetime.
func foldColumnType(ct model.ColumnType) model.ColumnType {
	switch ct {
	case model.ColumnTypeDate, model.ColumnTypeTime:
		return model.ColumnTypeDatetime
	case model.ColumnTypeBoolean, model.ColumnTypeObject:
		return model.ColumnTypeText
	default:
		return ct
	}
}
