package approval

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
)

// Gateway is the authorization boundary for administrator actions. It is the
// only caller that invokes approve/decline/reject/manual-entry on the
// engines: it checks the actor's role, stamps the actor identity on the
// request, and forwards. No business computation happens here, so the engines
// stay directly callable in tests with any identity.
type Gateway struct {
	attendanceService attendance.AttendanceService
	overtimeService   overtime.OvertimeService
}

func NewGateway(attendanceService attendance.AttendanceService, overtimeService overtime.OvertimeService) *Gateway {
	return &Gateway{
		attendanceService: attendanceService,
		overtimeService:   overtimeService,
	}
}

func requireAdmin(actor user.Actor) error {
	if !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}
	return nil
}

// ApproveAttendance forwards an attendance approval for an admin actor.
func (g *Gateway) ApproveAttendance(ctx context.Context, actor user.Actor, attendanceID string) (attendance.AttendanceResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return g.attendanceService.Approve(ctx, attendance.ApproveRequest{
		AdminID:      actor.ID,
		AttendanceID: attendanceID,
	})
}

// DeclineAttendance forwards an attendance decline; the justification note is
// mandatory and persisted as admin_notes.
func (g *Gateway) DeclineAttendance(ctx context.Context, actor user.Actor, attendanceID, notes string) (attendance.AttendanceResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return g.attendanceService.Decline(ctx, attendance.DeclineRequest{
		AdminID:      actor.ID,
		AttendanceID: attendanceID,
		Notes:        notes,
	})
}

// ManualEntry forwards an administrator-entered attendance record.
func (g *Gateway) ManualEntry(ctx context.Context, actor user.Actor, req attendance.ManualEntryRequest) (attendance.AttendanceResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	req.AdminID = actor.ID
	return g.attendanceService.ManualEntry(ctx, req)
}

// ApproveOvertime forwards an overtime approval for an admin actor.
func (g *Gateway) ApproveOvertime(ctx context.Context, actor user.Actor, overtimeID string) (overtime.OvertimeResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return g.overtimeService.Approve(ctx, overtime.ApproveRequest{
		AdminID:    actor.ID,
		OvertimeID: overtimeID,
	})
}

// RejectOvertime forwards an overtime rejection; the reason is mandatory.
func (g *Gateway) RejectOvertime(ctx context.Context, actor user.Actor, overtimeID, reason string) (overtime.OvertimeResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return g.overtimeService.Reject(ctx, overtime.RejectRequest{
		AdminID:    actor.ID,
		OvertimeID: overtimeID,
		Reason:     reason,
	})
}
