package http

import (
	"net/http"

	"masrofi/internal/core"
)

// list writes items as a JSON array, never null.
func list[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, r, http.StatusOK, items)
}

// create decodes a T, hands it to save and answers 201 with the stored value.
func create[T any](w http.ResponseWriter, r *http.Request, save func(T) (T, error)) {
	var in T
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := save(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond[T any](w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.Services.Expenses.List(r.Context(), month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, items)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(e core.Expense) (core.Expense, error) {
		return s.Services.Expenses.Create(r.Context(), e)
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.Expense
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.Services.Expenses.Update(r.Context(), pathID(r), in)
	respond(w, r, out, err)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Expenses.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	items, err := s.Services.Income.List(r.Context(), month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, items)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(i core.Income) (core.Income, error) {
		return s.Services.Income.Create(r.Context(), i)
	})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Income.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Debts.List(r.Context()))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(d core.Debt) (core.Debt, error) {
		return s.Services.Debts.Create(r.Context(), d)
	})
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	d, err := s.Services.Debts.Pay(r.Context(), pathID(r))
	respond(w, r, d, err)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Debts.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	items, err := s.Services.Budgets.List(r.Context(), month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, items)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(b core.Budget) (core.Budget, error) {
		return s.Services.Budgets.Create(r.Context(), b)
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Budgets.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Goals.List(r.Context()))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(g core.SavingsGoal) (core.SavingsGoal, error) {
		return s.Services.Goals.Create(r.Context(), g)
	})
}

type contribution struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	var in contribution
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.Services.Goals.Contribute(r.Context(), pathID(r), in.Amount)
	respond(w, r, g, err)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Goals.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Recurring.List(r.Context()))
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(re core.RecurringExpense) (core.RecurringExpense, error) {
		return s.Services.Recurring.Create(r.Context(), re)
	})
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Recurring.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Bills.List(r.Context()))
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(b core.BillReminder) (core.BillReminder, error) {
		return s.Services.Bills.Create(r.Context(), b)
	})
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	b, err := s.Services.Bills.Pay(r.Context(), pathID(r))
	respond(w, r, b, err)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Bills.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Wallets.List(r.Context()))
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(wl core.Wallet) (core.Wallet, error) {
		return s.Services.Wallets.Create(r.Context(), wl)
	})
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Wallets.Delete(r.Context(), pathID(r)))
}

func (s *Server) handleListShoppingLists(w http.ResponseWriter, r *http.Request) {
	list(w, r, s.Services.Shopping.Lists(r.Context()))
}

func (s *Server) handleCreateShoppingList(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(l core.ShoppingList) (core.ShoppingList, error) {
		return s.Services.Shopping.CreateList(r.Context(), l)
	})
}

func (s *Server) handleDeleteShoppingList(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Services.Shopping.DeleteList(r.Context(), pathID(r)))
}

func (s *Server) handleListShoppingItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.Services.Shopping.Items(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, items)
}

func (s *Server) handleAddShoppingItem(w http.ResponseWriter, r *http.Request) {
	listID := pathID(r)
	create(w, r, func(it core.ShoppingItem) (core.ShoppingItem, error) {
		return s.Services.Shopping.AddItem(r.Context(), listID, it)
	})
}

func (s *Server) handleToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.Services.Shopping.ToggleItem(r.Context(), pathID(r))
	respond(w, r, it, err)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Services.Settings.Get(r.Context()))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	in := s.Services.Settings.Get(r.Context())
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.Services.Settings.Update(r.Context(), in)
	respond(w, r, out, err)
}
