package services

import (
	"context"
	"time"

	"github.com/yigit/codetrack/internal/app/analytics"
	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// StudentInfo identifies a student in analytics views
type StudentInfo struct {
	StudentID      int64  `json:"studentId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	RegisterNumber string `json:"registerNumber"`
	AdmissionYear  int    `json:"admissionYear"`
	DepartmentName string `json:"departmentName,omitempty"`
}

// StudentDetail is the full dashboard of one student
type StudentDetail struct {
	Student StudentInfo               `json:"studentInfo"`
	Summary analytics.StudentSummary `json:"overallAggregation"`
}

// StudentRow is one line of a student listing
type StudentRow struct {
	StudentID      int64      `json:"studentId"`
	FullName       string     `json:"fullName"`
	DepartmentName string     `json:"departmentName,omitempty"`
	TotalSolved    int        `json:"totalSolved"`
	Growth         int        `json:"growth"`
	AverageRating  float64    `json:"averageRating"`
	LastActive     *time.Time `json:"lastActive"`
	analytics.RiskAssessment
}

// CounsellorSummary aggregates the counsellor's department
type CounsellorSummary struct {
	DepartmentID   int64   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	TotalStudents  int     `json:"totalStudents"`
	TotalSolved    int     `json:"totalSolved"`
	AverageGrowth  float64 `json:"averageGrowth"`
	AtRiskCount    int     `json:"atRiskCount"`
}

// DepartmentLeaderboard ranks the students of one department
type DepartmentLeaderboard struct {
	DepartmentID   int64                        `json:"departmentId"`
	DepartmentName string                       `json:"departmentName"`
	TotalStudents  int                          `json:"totalStudents"`
	Leaderboard    []analytics.LeaderboardEntry `json:"leaderboard"`
}

// InstitutionSummary is the admin overview. TotalGrowth is a placeholder and
// always zero.
type InstitutionSummary struct {
	TotalStudents        int     `json:"totalStudents"`
	TotalDepartments     int     `json:"totalDepartments"`
	TotalLinkedPlatforms int     `json:"totalLinkedPlatforms"`
	TotalProblemsSolved  int     `json:"totalProblemsSolved"`
	AverageRating        float64 `json:"averageRating"`
	TotalGrowth          int     `json:"totalGrowth"`
}

// DepartmentPerformance compares departments
type DepartmentPerformance struct {
	DepartmentID   int64   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	DepartmentCode string  `json:"departmentCode"`
	TotalStudents  int     `json:"totalStudents"`
	TotalSolved    int     `json:"totalSolved"`
	AverageSolved  float64 `json:"averageSolved"`
	AverageGrowth  float64 `json:"averageGrowth"`
	AtRiskCount    int     `json:"atRiskCount"`
}

// TopPerformer is a ranked student across the institution
type TopPerformer struct {
	analytics.LeaderboardEntry
	DepartmentName string  `json:"departmentName,omitempty"`
	AverageRating  float64 `json:"averageRating"`
}

// AnalyticsService builds dashboards from approved snapshots only
type AnalyticsService struct {
	store            repositories.Store
	authority        *appauth.RoleAuthority
	policy           analytics.RiskPolicy
	leaderboardLimit int
	now              func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store repositories.Store, authority *appauth.RoleAuthority, policy analytics.RiskPolicy, leaderboardLimit int) *AnalyticsService {
	return &AnalyticsService{
		store:            store,
		authority:        authority,
		policy:           policy,
		leaderboardLimit: leaderboardLimit,
		now:              time.Now,
	}
}

var approvedOnly = models.SnapshotApproved

func (s *AnalyticsService) recentApproved(ctx context.Context, accountID int64) ([]*models.Snapshot, error) {
	return s.store.Snapshots().ListByAccount(ctx, accountID, models.SnapshotQuery{
		Status: &approvedOnly,
		Limit:  analytics.RecentWindow,
	})
}

func (s *AnalyticsService) summarize(ctx context.Context, studentID int64) (analytics.StudentSummary, error) {
	accounts, err := s.store.Platforms().ListByStudent(ctx, studentID)
	if err != nil {
		return analytics.StudentSummary{}, err
	}
	stats := make([]analytics.AccountStats, 0, len(accounts))
	for _, account := range accounts {
		recent, err := s.recentApproved(ctx, account.ID)
		if err != nil {
			return analytics.StudentSummary{}, err
		}
		stats = append(stats, analytics.NewAccountStats(account, recent))
	}
	return analytics.Summarize(stats), nil
}

func (s *AnalyticsService) departmentNames(ctx context.Context) (map[int64]string, error) {
	departments, err := s.store.Departments().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	return names, nil
}

func departmentName(names map[int64]string, student *models.Student) string {
	if student.DepartmentID == nil {
		return ""
	}
	return names[*student.DepartmentID]
}

func (s *AnalyticsService) detail(ctx context.Context, student *models.Student) (*StudentDetail, error) {
	summary, err := s.summarize(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	info := StudentInfo{
		StudentID:      student.ID,
		FullName:       student.FullName,
		Email:          student.Email,
		RegisterNumber: student.RegisterNumber,
		AdmissionYear:  student.AdmissionYear,
	}
	if student.DepartmentID != nil {
		dept, err := s.store.Departments().GetByID(ctx, *student.DepartmentID)
		if err != nil {
			return nil, err
		}
		info.DepartmentName = dept.Name
	}
	return &StudentDetail{Student: info, Summary: summary}, nil
}

// rows summarizes every student and assesses risk against the current time
func (s *AnalyticsService) rows(ctx context.Context, students []*models.Student) ([]StudentRow, error) {
	names, err := s.departmentNames(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]StudentRow, 0, len(students))
	for _, st := range students {
		summary, err := s.summarize(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, StudentRow{
			StudentID:      st.ID,
			FullName:       st.FullName,
			DepartmentName: departmentName(names, st),
			TotalSolved:    summary.TotalSolved,
			Growth:         summary.TotalGrowth,
			AverageRating:  summary.AverageRating,
			LastActive:     summary.LastActive,
			RiskAssessment: s.policy.Assess(summary, now),
		})
	}
	return out, nil
}

func atRisk(rows []StudentRow) []StudentRow {
	out := make([]StudentRow, 0)
	for _, r := range rows {
		if r.AtRisk {
			out = append(out, r)
		}
	}
	return out
}

// MySummary is the caller's own dashboard
func (s *AnalyticsService) MySummary(ctx context.Context, caller models.Identity) (*StudentDetail, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, student)
}

// AccountGrowth compares the two most recent approved snapshots of one of the
// caller's accounts
func (s *AnalyticsService) AccountGrowth(ctx context.Context, caller models.Identity, accountID int64) (*analytics.Growth, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	if _, err := ownedAccount(ctx, s.store, student, accountID); err != nil {
		return nil, err
	}
	recent, err := s.recentApproved(ctx, accountID)
	if err != nil {
		return nil, err
	}
	growth := analytics.ComputeGrowth(recent)
	if !growth.Available {
		return nil, apperrors.ErrInsufficientSnapshotData
	}
	return &growth, nil
}

func (s *AnalyticsService) requireAdvisor(caller models.Identity) error {
	if !s.authority.IsAdvisor(caller) {
		return apperrors.NewPermissionDeniedError("advisor role required")
	}
	return nil
}

// AdvisorStudents lists the students advised by the caller
func (s *AnalyticsService) AdvisorStudents(ctx context.Context, caller models.Identity) ([]StudentRow, error) {
	if err := s.requireAdvisor(caller); err != nil {
		return nil, err
	}
	ids, err := s.store.Links().StudentIDsByAdvisor(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []StudentRow{}, nil
	}
	students, err := s.store.Students().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, students)
}

// AdvisorStudentDetail is the dashboard of a student advised by the caller
func (s *AnalyticsService) AdvisorStudentDetail(ctx context.Context, caller models.Identity, studentID int64) (*StudentDetail, error) {
	if err := s.requireAdvisor(caller); err != nil {
		return nil, err
	}
	linked, err := advisedBy(ctx, s.store, studentID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, apperrors.NewForbiddenError("student is not assigned to you")
	}
	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, student)
}

// counsellorDepartment resolves the department of the caller's staff assignment
func (s *AnalyticsService) counsellorDepartment(ctx context.Context, caller models.Identity) (*models.Department, error) {
	if !s.authority.IsCounsellor(caller) {
		return nil, apperrors.NewPermissionDeniedError("counsellor role required")
	}
	staff, err := s.store.Staff().GetByUserID(ctx, caller.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrStaffDepartmentMissing
		}
		return nil, err
	}
	return s.store.Departments().GetByID(ctx, staff.DepartmentID)
}

func (s *AnalyticsService) counsellorRows(ctx context.Context, caller models.Identity) (*models.Department, []StudentRow, error) {
	dept, err := s.counsellorDepartment(ctx, caller)
	if err != nil {
		return nil, nil, err
	}
	students, err := s.store.Students().ListByDepartment(ctx, dept.ID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.rows(ctx, students)
	if err != nil {
		return nil, nil, err
	}
	return dept, rows, nil
}

// CounsellorSummary aggregates the department of the caller's assignment
func (s *AnalyticsService) CounsellorSummary(ctx context.Context, caller models.Identity) (*CounsellorSummary, error) {
	dept, rows, err := s.counsellorRows(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := &CounsellorSummary{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		TotalStudents:  len(rows),
	}
	growth := 0
	for _, r := range rows {
		out.TotalSolved += r.TotalSolved
		growth += r.Growth
		if r.AtRisk {
			out.AtRiskCount++
		}
	}
	if len(rows) > 0 {
		out.AverageGrowth = analytics.Round2(float64(growth) / float64(len(rows)))
	}
	return out, nil
}

// CounsellorStudents lists the students of the caller's department with their risk
func (s *AnalyticsService) CounsellorStudents(ctx context.Context, caller models.Identity) ([]StudentRow, error) {
	_, rows, err := s.counsellorRows(ctx, caller)
	return rows, err
}

// CounsellorAtRisk lists only the at-risk students of the caller's department
func (s *AnalyticsService) CounsellorAtRisk(ctx context.Context, caller models.Identity) ([]StudentRow, error) {
	_, rows, err := s.counsellorRows(ctx, caller)
	if err != nil {
		return nil, err
	}
	return atRisk(rows), nil
}

// DepartmentLeaderboard ranks a department by total solved. Admins, counsellors
// and the head of that department may read it.
func (s *AnalyticsService) DepartmentLeaderboard(ctx context.Context, caller models.Identity, departmentID int64) (*DepartmentLeaderboard, error) {
	dept, err := s.store.Departments().GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	ok, err := s.authority.CanViewDepartment(ctx, caller, departmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewForbiddenError("unauthorized access to this department leaderboard")
	}

	students, err := s.store.Students().ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	entries := make([]analytics.LeaderboardEntry, 0, len(students))
	for _, st := range students {
		summary, err := s.summarize(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, analytics.LeaderboardEntry{
			StudentID:   st.ID,
			FullName:    st.FullName,
			TotalSolved: summary.TotalSolved,
		})
	}

	return &DepartmentLeaderboard{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		TotalStudents:  len(students),
		Leaderboard:    analytics.RankLeaderboard(entries),
	}, nil
}

// InstitutionSummary counts students, departments and accounts, and aggregates
// the latest approved snapshot of every account. Admin only.
func (s *AnalyticsService) InstitutionSummary(ctx context.Context, caller models.Identity) (*InstitutionSummary, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}

	out := &InstitutionSummary{}
	var err error
	if out.TotalStudents, err = s.store.Students().Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalDepartments, err = s.store.Departments().Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalLinkedPlatforms, err = s.store.Platforms().Count(ctx); err != nil {
		return nil, err
	}

	students, err := s.store.Students().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ratingTotal, rated := 0, 0
	for _, st := range students {
		summary, err := s.summarize(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		out.TotalProblemsSolved += summary.TotalSolved
		for _, a := range summary.Accounts {
			if a.LatestRating != nil {
				ratingTotal += *a.LatestRating
				rated++
			}
		}
	}
	if rated > 0 {
		out.AverageRating = analytics.Round2(float64(ratingTotal) / float64(rated))
	}
	return out, nil
}

// DepartmentPerformance compares every department. Admin only.
func (s *AnalyticsService) DepartmentPerformance(ctx context.Context, caller models.Identity) ([]DepartmentPerformance, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}
	departments, err := s.store.Departments().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DepartmentPerformance, 0, len(departments))
	for _, dept := range departments {
		students, err := s.store.Students().ListByDepartment(ctx, dept.ID)
		if err != nil {
			return nil, err
		}
		rows, err := s.rows(ctx, students)
		if err != nil {
			return nil, err
		}

		perf := DepartmentPerformance{
			DepartmentID:   dept.ID,
			DepartmentName: dept.Name,
			DepartmentCode: dept.Code,
			TotalStudents:  len(rows),
		}
		growth := 0
		for _, r := range rows {
			perf.TotalSolved += r.TotalSolved
			growth += r.Growth
			if r.AtRisk {
				perf.AtRiskCount++
			}
		}
		if len(rows) > 0 {
			perf.AverageSolved = analytics.Round2(float64(perf.TotalSolved) / float64(len(rows)))
			perf.AverageGrowth = analytics.Round2(float64(growth) / float64(len(rows)))
		}
		out = append(out, perf)
	}
	return out, nil
}

// TopPerformers ranks every student by total solved and returns the first
// limit. A non-positive limit uses the configured default. Admin only.
func (s *AnalyticsService) TopPerformers(ctx context.Context, caller models.Identity, limit int) ([]TopPerformer, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.leaderboardLimit
	}

	students, err := s.store.Students().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, students)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]StudentRow, len(rows))
	entries := make([]analytics.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		byID[r.StudentID] = r
		entries = append(entries, analytics.LeaderboardEntry{
			StudentID:   r.StudentID,
			FullName:    r.FullName,
			TotalSolved: r.TotalSolved,
		})
	}

	ranked := analytics.Top(analytics.RankLeaderboard(entries), limit)
	out := make([]TopPerformer, 0, len(ranked))
	for _, e := range ranked {
		row := byID[e.StudentID]
		out = append(out, TopPerformer{
			LeaderboardEntry: e,
			DepartmentName:   row.DepartmentName,
			AverageRating:    row.AverageRating,
		})
	}
	return out, nil
}

// InstitutionAtRisk lists at-risk students across every department. Admin only.
func (s *AnalyticsService) InstitutionAtRisk(ctx context.Context, caller models.Identity) ([]StudentRow, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, students)
	if err != nil {
		return nil, err
	}
	return atRisk(rows), nil
}
