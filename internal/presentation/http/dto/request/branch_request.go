package request

// CreateCenterRequest represents a center registration request
type CreateCenterRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
	Slug string `json:"slug" binding:"required,min=2,max=255,lowercase"`
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	CenterID    string `json:"center_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Address     string `json:"address" binding:"max=2000"`
	Phone       string `json:"phone" binding:"max=50"`
	BotToken    string `json:"bot_token" binding:"max=255"`
	StaffChatID int64  `json:"staff_chat_id"`
}

// UpdateBranchRequest represents a branch update request
type UpdateBranchRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Address     *string `json:"address" binding:"omitempty,max=2000"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	BotToken    *string `json:"bot_token" binding:"omitempty,max=255"`
	StaffChatID *int64  `json:"staff_chat_id"`
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name       string  `json:"name" binding:"required,min=1,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	TelegramID int64   `json:"telegram_id"`
	Language   string  `json:"language" binding:"omitempty,max=8"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Language *string `json:"language" binding:"omitempty,max=8"`
}
