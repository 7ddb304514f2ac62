// Package services holds the document controller: the single owner of the
// in-memory document. All mutation funnels through its named operations,
// and every mutating operation ends by invoking the save pipeline.
package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/money"
	"spendbook/internal/normalize"
	"spendbook/internal/notify"
	"spendbook/internal/pagination"
	"spendbook/internal/session"
	"spendbook/internal/store"
	"spendbook/internal/syncer"
	"spendbook/internal/uuid"
)

// Controller owns the live document and coordinates the gate, the local
// cache, and the remote sync client.
type Controller struct {
	cache      *store.Cache
	syncClient *syncer.Client
	feed       *notify.Feed
	gate       *session.Gate

	mu  sync.Mutex
	doc *models.Document
}

// NewDocumentService creates the document controller wired to the given
// auth provider and stores. The returned controller starts anonymous with
// the cache-loaded document; call Start to resume an existing session and
// consume provider events.
func NewDocumentService(provider session.Provider, cache *store.Cache, syncClient *syncer.Client, feed *notify.Feed) *Controller {
	c := &Controller{
		cache:      cache,
		syncClient: syncClient,
		feed:       feed,
	}
	c.gate = session.NewGate(provider, c.onTransition)
	c.doc = cache.Load()
	return c
}

var _ DocumentServicer = (*Controller)(nil)

// Start resumes any existing provider session and begins consuming auth
// events until ctx is done.
func (c *Controller) Start(ctx context.Context) {
	c.gate.Resume()
	go c.gate.Run(ctx)
}

// Gate exposes the session gate for transport-level checks.
func (c *Controller) Gate() *session.Gate {
	return c.gate
}

// onTransition reacts to gate state changes: entering the authenticated
// state replaces the document with the remote fetch, leaving it resets to
// defaults. Caches are left untouched on sign-out.
func (c *Controller) onTransition(tr session.Transition) {
	switch tr.To {
	case session.StateAuthenticated:
		doc, err := c.syncClient.Fetch(tr.Session.UserID)
		if err != nil {
			logger.Get().Warnw("remote fetch failed, serving cached state", "error", err)
			c.feed.Warn(apperrors.ErrRemoteRead.Message)
			doc = c.cache.Load()
		}
		c.mu.Lock()
		c.doc = doc
		c.mu.Unlock()
	case session.StateAnonymous:
		c.mu.Lock()
		c.doc = models.DefaultDocument()
		c.mu.Unlock()
	}
}

// --- session operations ---

func (c *Controller) SignUp(email, password string) (*session.Session, error) {
	return c.gate.SignUp(email, password)
}

func (c *Controller) SignIn(email, password string) (*session.Session, error) {
	return c.gate.SignIn(email, password)
}

// SignOut ends the session. An in-flight debounced remote write is allowed
// to complete or fail on its own.
func (c *Controller) SignOut() {
	c.gate.SignOut()
}

func (c *Controller) SessionState() (session.State, *session.Session) {
	return c.gate.State(), c.gate.Session()
}

// --- reads ---

// Snapshot returns a deep copy of the current document.
func (c *Controller) Snapshot() *models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Summary derives the dashboard totals from the current document.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum Summary
	balances := make(map[string]float64, len(c.doc.Accounts))
	for _, a := range c.doc.Accounts {
		balances[a.ID] = a.InitialBalance
	}
	for _, tx := range c.doc.Transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			sum.TotalIncome = money.Round(sum.TotalIncome + tx.Amount)
			balances[tx.AccountID] = money.Round(balances[tx.AccountID] + tx.Amount)
		case models.TransactionTypeExpense:
			sum.TotalExpense = money.Round(sum.TotalExpense + tx.Amount)
			balances[tx.AccountID] = money.Round(balances[tx.AccountID] - tx.Amount)
		}
	}
	sum.Net = money.Round(sum.TotalIncome - sum.TotalExpense)

	sum.Accounts = make([]AccountBalance, 0, len(c.doc.Accounts))
	for _, a := range c.doc.Accounts {
		sum.Accounts = append(sum.Accounts, AccountBalance{AccountID: a.ID, Name: a.Name, Balance: balances[a.ID]})
	}
	return sum
}

// ListTransactions returns one page of transactions, newest-date first.
func (c *Controller) ListTransactions(page pagination.PageRequest) pagination.PageResponse[models.Transaction] {
	c.mu.Lock()
	txs := append([]models.Transaction(nil), c.doc.Transactions...)
	c.mu.Unlock()

	// Stable ordering by date descending, array order within a day.
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date > txs[j].Date })
	return pagination.Slice(txs, page)
}

// --- transactions ---

func (c *Controller) AddTransaction(date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := models.Transaction{
		ID:         uuid.New(),
		Date:       date,
		Type:       txType,
		Amount:     money.Round(amount),
		AccountID:  accountID,
		CategoryID: categoryID,
		Note:       note,
		CreatedAt:  nowISO(),
		UpdatedAt:  nowISO(),
	}
	if err := c.validateTransactionLocked(&tx); err != nil {
		return nil, err
	}

	doc := c.doc.Clone()
	doc.Transactions = append(doc.Transactions, tx)
	c.commitLocked(doc, false)
	return &tx, nil
}

func (c *Controller) UpdateTransaction(id, date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.doc.TransactionByID(id)
	if existing == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	updated := *existing
	updated.Date = date
	updated.Type = txType
	updated.Amount = money.Round(amount)
	updated.AccountID = accountID
	updated.CategoryID = categoryID
	updated.Note = note
	updated.UpdatedAt = nowISO()
	if err := c.validateTransactionLocked(&updated); err != nil {
		return nil, err
	}

	doc := c.doc.Clone()
	*doc.TransactionByID(id) = updated
	c.commitLocked(doc, false)
	return &updated, nil
}

func (c *Controller) DeleteTransaction(id string) error {
	if err := c.gate.Require(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.TransactionByID(id) == nil {
		return apperrors.ErrTransactionNotFound
	}

	doc := c.doc.Clone()
	doc.Transactions = filterTransactions(doc.Transactions, id)
	c.commitLocked(doc, false)
	return nil
}

// validateTransactionLocked checks a transaction against the current
// document: resolvable references, matching category type, valid calendar
// date, positive amount, bounded note.
func (c *Controller) validateTransactionLocked(tx *models.Transaction) error {
	if !normalize.ValidDate(tx.Date) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be a valid YYYY-MM-DD date")
	}
	if tx.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if len([]rune(tx.Note)) > models.NoteMaxLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "note must be at most 60 characters")
	}
	if c.doc.AccountByID(tx.AccountID) == nil {
		return apperrors.ErrAccountNotFound
	}
	cat := c.doc.CategoryByID(tx.CategoryID)
	if cat == nil {
		return apperrors.ErrCategoryNotFound
	}
	if string(cat.Type) != string(tx.Type) {
		return apperrors.ErrCategoryTypeMismatch
	}
	return nil
}

// --- accounts ---

func (c *Controller) AddAccount(name, icon, color string, initialBalance float64) (*models.Account, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	acc := models.Account{
		ID:             uuid.New(),
		Name:           name,
		Icon:           defaultIfEmpty(icon, models.DefaultAccountIcon),
		Color:          defaultIfEmpty(color, models.DefaultColor),
		InitialBalance: money.Round(initialBalance),
	}

	doc := c.doc.Clone()
	doc.Accounts = append(doc.Accounts, acc)
	c.commitLocked(doc, false)
	return &acc, nil
}

func (c *Controller) UpdateAccount(id, name, icon, color string, initialBalance *float64) (*models.Account, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.AccountByID(id) == nil {
		return nil, apperrors.ErrAccountNotFound
	}

	doc := c.doc.Clone()
	acc := doc.AccountByID(id)
	if name != "" {
		acc.Name = name
	}
	if icon != "" {
		acc.Icon = icon
	}
	if color != "" {
		acc.Color = color
	}
	if initialBalance != nil {
		acc.InitialBalance = money.Round(*initialBalance)
	}
	out := *acc
	c.commitLocked(doc, false)
	return &out, nil
}

// DeleteAccount refuses to remove default accounts and accounts still
// referenced by transactions.
func (c *Controller) DeleteAccount(id string) error {
	if err := c.gate.Require(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	acc := c.doc.AccountByID(id)
	if acc == nil {
		return apperrors.ErrAccountNotFound
	}
	if acc.IsDefault {
		return apperrors.ErrDefaultAccount
	}
	for _, tx := range c.doc.Transactions {
		if tx.AccountID == id {
			return apperrors.ErrAccountInUse
		}
	}

	doc := c.doc.Clone()
	kept := doc.Accounts[:0:0]
	for _, a := range doc.Accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	doc.Accounts = kept
	c.commitLocked(doc, false)
	return nil
}

// --- categories ---

func (c *Controller) AddCategory(name string, categoryType models.CategoryType, icon, color string) (*models.Category, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome {
		categoryType = models.CategoryTypeExpense
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := models.Category{
		ID:    uuid.New(),
		Name:  name,
		Type:  categoryType,
		Icon:  defaultIfEmpty(icon, models.DefaultCategoryIcon),
		Color: defaultIfEmpty(color, models.DefaultColor),
	}

	doc := c.doc.Clone()
	doc.Categories = append(doc.Categories, cat)
	c.commitLocked(doc, false)
	return &cat, nil
}

// UpdateCategory changes display fields only; the type of a category is
// immutable so existing transactions cannot be invalidated.
func (c *Controller) UpdateCategory(id, name, icon, color string) (*models.Category, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.CategoryByID(id) == nil {
		return nil, apperrors.ErrCategoryNotFound
	}

	doc := c.doc.Clone()
	cat := doc.CategoryByID(id)
	if name != "" {
		cat.Name = name
	}
	if icon != "" {
		cat.Icon = icon
	}
	if color != "" {
		cat.Color = color
	}
	out := *cat
	c.commitLocked(doc, false)
	return &out, nil
}

func (c *Controller) DeleteCategory(id string) error {
	if err := c.gate.Require(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.doc.CategoryByID(id)
	if cat == nil {
		return apperrors.ErrCategoryNotFound
	}
	if cat.IsDefault {
		return apperrors.ErrDefaultCategory
	}
	for _, tx := range c.doc.Transactions {
		if tx.CategoryID == id {
			return apperrors.ErrCategoryInUse
		}
	}
	for _, b := range c.doc.Budgets {
		if b.CategoryID == id {
			return apperrors.ErrCategoryInUse
		}
	}

	doc := c.doc.Clone()
	kept := doc.Categories[:0:0]
	for _, entry := range doc.Categories {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	doc.Categories = kept
	c.commitLocked(doc, false)
	return nil
}

// --- budgets ---

func (c *Controller) AddBudget(month, categoryID string, amount float64) (*models.Budget, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !normalize.ValidMonth(month) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be a valid YYYY-MM month")
	}
	amount = money.Round(amount)
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	cat := c.doc.CategoryByID(categoryID)
	if cat == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	if cat.Type != models.CategoryTypeExpense {
		return nil, apperrors.ErrBudgetCategory
	}
	for _, b := range c.doc.Budgets {
		if b.Month == month && b.CategoryID == categoryID {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a budget for this category and month already exists")
		}
	}

	budget := models.Budget{
		ID:         uuid.New(),
		Month:      month,
		CategoryID: categoryID,
		Amount:     amount,
		CreatedAt:  nowISO(),
		UpdatedAt:  nowISO(),
	}

	doc := c.doc.Clone()
	doc.Budgets = append(doc.Budgets, budget)
	c.commitLocked(doc, false)
	return &budget, nil
}

func (c *Controller) UpdateBudget(id string, amount float64) (*models.Budget, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.BudgetByID(id) == nil {
		return nil, apperrors.ErrBudgetNotFound
	}
	amount = money.Round(amount)
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	doc := c.doc.Clone()
	budget := doc.BudgetByID(id)
	budget.Amount = amount
	budget.UpdatedAt = nowISO()
	out := *budget
	c.commitLocked(doc, false)
	return &out, nil
}

func (c *Controller) DeleteBudget(id string) error {
	if err := c.gate.Require(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.BudgetByID(id) == nil {
		return apperrors.ErrBudgetNotFound
	}

	doc := c.doc.Clone()
	kept := doc.Budgets[:0:0]
	for _, b := range doc.Budgets {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	doc.Budgets = kept
	c.commitLocked(doc, false)
	return nil
}

// --- settings ---

func (c *Controller) UpdateSettings(currency string) (*models.Settings, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	if currency == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.doc.Clone()
	doc.Settings.Currency = currency
	c.commitLocked(doc, false)
	out := doc.Settings
	return &out, nil
}

// --- whole-document operations ---

// Import replaces the document with a normalized backup file. The file must
// carry accounts, categories, and transactions as sequences; anything less
// is rejected before the live document is touched. The save is immediate,
// not debounced.
func (c *Controller) Import(data []byte) (*models.Document, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportInvalid, err)
	}
	for _, key := range []string{"accounts", "categories", "transactions"} {
		if _, ok := raw[key].([]any); !ok {
			return nil, apperrors.WithMessage(apperrors.ErrImportInvalid, "backup is missing the "+key+" list")
		}
	}

	doc := normalize.Document(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked(doc, true)
	return c.doc.Clone(), nil
}

// exportFile is the on-disk backup shape: the document plus export
// metadata, ignored on import.
type exportFile struct {
	*models.Document
	ExportedAt string `json:"exportedAt"`
	UserEmail  string `json:"userEmail"`
}

// Export serializes the current document with export metadata.
func (c *Controller) Export() ([]byte, error) {
	if err := c.gate.Require(); err != nil {
		return nil, err
	}
	sess := c.gate.Session()

	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()

	out := exportFile{Document: doc, ExportedAt: nowISO()}
	if sess != nil {
		out.UserEmail = sess.Email
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

// ClearAll replaces the document with the built-in defaults, saving
// immediately.
func (c *Controller) ClearAll() error {
	if err := c.gate.Require(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked(models.DefaultDocument(), true)
	return nil
}

// --- save pipeline ---

// commitLocked installs the mutated document and runs the save pipeline:
// meta.updatedAt is refreshed exactly once, the local cache is written
// synchronously, and the remote write is scheduled (or performed
// immediately). Callers hold c.mu.
func (c *Controller) commitLocked(doc *models.Document, immediate bool) {
	doc.Meta.UpdatedAt = nowISO()
	c.doc = doc

	sess := c.gate.Session()
	if sess == nil {
		// Mutations are gated, so this only happens if the session ended
		// mid-operation; keep the local write, skip the remote.
		if err := c.cache.Save(doc); err != nil {
			logger.Get().Warnw("local cache write failed", "error", err)
		}
		return
	}
	c.syncClient.Save(sess.UserID, doc, immediate)
}

func filterTransactions(txs []models.Transaction, dropID string) []models.Transaction {
	kept := txs[:0:0]
	for _, tx := range txs {
		if tx.ID != dropID {
			kept = append(kept, tx)
		}
	}
	return kept
}

func defaultIfEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
