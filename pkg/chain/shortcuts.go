package chain

// Operation names recorded by the shortcut methods.
const (
	OpFilter          = "filter"
	OpExclude         = "exclude"
	OpAnnotate        = "annotate"
	OpOrderBy         = "order_by"
	OpReverse         = "reverse"
	OpDistinct        = "distinct"
	OpValues          = "values"
	OpValuesList      = "values_list"
	OpDates           = "dates"
	OpNone            = "none"
	OpAll             = "all"
	OpSelectRelated   = "select_related"
	OpPrefetchRelated = "prefetch_related"
	OpExtra           = "extra"
	OpDefer           = "defer"
	OpOnly            = "only"
	OpUsing           = "using"
	OpSelectForUpdate = "select_for_update"
)

// Shortcuts are plain Call wrappers with a fixed operation name.

func (c *Chain) Filter(kwargs ...Kwarg) *Chain {
	return c.Call(OpFilter, nil, kwargs...)
}

func (c *Chain) Exclude(kwargs ...Kwarg) *Chain {
	return c.Call(OpExclude, nil, kwargs...)
}

func (c *Chain) Annotate(args []any, kwargs ...Kwarg) *Chain {
	return c.Call(OpAnnotate, args, kwargs...)
}

func (c *Chain) OrderBy(fields ...any) *Chain {
	return c.Call(OpOrderBy, fields)
}

func (c *Chain) Reverse() *Chain {
	return c.Call(OpReverse, nil)
}

func (c *Chain) Distinct(fields ...any) *Chain {
	return c.Call(OpDistinct, fields)
}

func (c *Chain) Values(fields ...any) *Chain {
	return c.Call(OpValues, fields)
}

func (c *Chain) ValuesList(fields ...any) *Chain {
	return c.Call(OpValuesList, fields)
}

func (c *Chain) Dates(args []any, kwargs ...Kwarg) *Chain {
	return c.Call(OpDates, args, kwargs...)
}

func (c *Chain) None() *Chain {
	return c.Call(OpNone, nil)
}

func (c *Chain) All() *Chain {
	return c.Call(OpAll, nil)
}

func (c *Chain) SelectRelated(fields ...any) *Chain {
	return c.Call(OpSelectRelated, fields)
}

func (c *Chain) PrefetchRelated(lookups ...any) *Chain {
	return c.Call(OpPrefetchRelated, lookups)
}

func (c *Chain) Extra(args []any, kwargs ...Kwarg) *Chain {
	return c.Call(OpExtra, args, kwargs...)
}

func (c *Chain) Defer(fields ...any) *Chain {
	return c.Call(OpDefer, fields)
}

func (c *Chain) Only(fields ...any) *Chain {
	return c.Call(OpOnly, fields)
}

func (c *Chain) Using(alias any) *Chain {
	return c.Call(OpUsing, []any{alias})
}

func (c *Chain) SelectForUpdate(nowait any) *Chain {
	return c.Call(OpSelectForUpdate, []any{nowait})
}
