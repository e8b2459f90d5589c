package dto

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Code string `json:"code" binding:"required,max=20"`
}

// LinkPlatformRequest links a coding platform account
type LinkPlatformRequest struct {
	Platform string `json:"platform" binding:"required"`
	Username string `json:"username" binding:"required,max=255"`
}

// SubmitSnapshotRequest reports the metrics of one account for one day
type SubmitSnapshotRequest struct {
	PlatformAccountID int64  `json:"platformAccountId" binding:"required,gt=0"`
	TotalSolved       *int   `json:"totalSolved" binding:"required,gte=0"`
	ContestRating     *int   `json:"contestRating" binding:"omitempty,gte=0"`
	GlobalRank        *int   `json:"globalRank" binding:"omitempty,gt=0"`
	SnapshotDate      string `json:"snapshotDate" binding:"required,datetime=2006-01-02"`
}

// RejectSnapshotRequest carries optional remarks for a rejection
type RejectSnapshotRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}
