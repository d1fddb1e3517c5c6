package model

// All lists every model managed by auto-migration, in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&GroupModel{},
		&GroupMemberModel{},
		&CategoryModel{},
		&ExpenseModel{},
		&ExpenseSplitModel{},
		&ExchangeRateModel{},
	}
}
