package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrSessionRevoked     ErrCode = "SESSION_REVOKED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden             ErrCode = "FORBIDDEN"
	ErrPermissionDenied      ErrCode = "PERMISSION_DENIED"
	ErrNotAssignedToClass    ErrCode = "NOT_ASSIGNED_TO_CLASS"
	ErrManualPointsForbidden ErrCode = "MANUAL_POINTS_FORBIDDEN"
	ErrReasonNotAllowed      ErrCode = "REASON_NOT_ALLOWED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation         ErrCode = "VALIDATION_ERROR"
	ErrInvalidID          ErrCode = "INVALID_ID"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrInvalidPoints      ErrCode = "INVALID_POINTS"
	ErrManualTextRequired ErrCode = "MANUAL_TEXT_REQUIRED"
	ErrInvalidQuantity    ErrCode = "INVALID_QUANTITY"
	ErrGenderMismatch     ErrCode = "GENDER_MISMATCH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrStudentNotFound    ErrCode = "STUDENT_NOT_FOUND"
	ErrClassNotFound      ErrCode = "CLASS_NOT_FOUND"
	ErrGradeNotFound      ErrCode = "GRADE_NOT_FOUND"
	ErrReasonNotFound     ErrCode = "REASON_NOT_FOUND"
	ErrItemNotFound       ErrCode = "ITEM_NOT_FOUND"
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrAssignmentNotFound ErrCode = "ASSIGNMENT_NOT_FOUND"
	ErrSessionNotFound    ErrCode = "SESSION_NOT_FOUND"

	// ─── Conflicts ─────────────────────────────────────────────────────
	ErrConflict         ErrCode = "CONFLICT"
	ErrAttendanceExists ErrCode = "ATTENDANCE_ALREADY_RECORDED"
	ErrAssignmentExists ErrCode = "ASSIGNMENT_EXISTS"
	ErrUsernameTaken    ErrCode = "USERNAME_TAKEN"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Business rules ────────────────────────────────────────────────
	ErrNotAttendanceDay    ErrCode = "NOT_ATTENDANCE_DAY"
	ErrSessionNotOpen      ErrCode = "SESSION_NOT_OPEN"
	ErrNoAttendanceReason  ErrCode = "NO_ATTENDANCE_REASON"
	ErrMonthlyLimitReached ErrCode = "MONTHLY_LIMIT_REACHED"
	ErrInsufficientBalance ErrCode = "INSUFFICIENT_BALANCE"
	ErrInsufficientStock   ErrCode = "INSUFFICIENT_STOCK"
	ErrClassGenderLocked   ErrCode = "CLASS_GENDER_LOCKED"
	ErrCannotDisableSelf   ErrCode = "CANNOT_DISABLE_SELF"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the user-facing (Arabic) message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "بيانات الدخول غير صحيحة"
	case ErrAccountDisabled:
		return "هذا الحساب معطل"
	case ErrSessionRevoked:
		return "انتهت الجلسة، سجل الدخول مرة أخرى"
	case ErrTokenRequired:
		return "غير مسجل"
	case ErrTokenInvalid:
		return "جلسة غير صالحة"
	case ErrTokenExpired:
		return "انتهت صلاحية الجلسة"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "غير مسموح"
	case ErrPermissionDenied:
		return "لا تملك الصلاحية لهذا الإجراء"
	case ErrNotAssignedToClass:
		return "غير مسموح: هذا الطالب ليس ضمن فصولك"
	case ErrManualPointsForbidden:
		return "لا تملك صلاحية السبب اليدوي"
	case ErrReasonNotAllowed:
		return "غير مسموح لك باستخدام هذا السبب"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "بيانات غير صحيحة"
	case ErrInvalidID:
		return "معرف غير صالح"
	case ErrInvalidPayload:
		return "صيغة الطلب غير صحيحة"
	case ErrInvalidPoints:
		return "اكتب نقاط صحيحة"
	case ErrManualTextRequired:
		return "اكتب السبب"
	case ErrInvalidQuantity:
		return "الكمية غير صحيحة"
	case ErrGenderMismatch:
		return "لا يمكن وضع الطالب في فصل مختلف عن نوعه"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "العنصر غير موجود"
	case ErrStudentNotFound:
		return "الطالب غير موجود"
	case ErrClassNotFound:
		return "الفصل غير موجود"
	case ErrGradeNotFound:
		return "المرحلة غير موجودة"
	case ErrReasonNotFound:
		return "السبب غير موجود"
	case ErrItemNotFound:
		return "الهدية غير موجودة"
	case ErrUserNotFound:
		return "المستخدم غير موجود"
	case ErrAssignmentNotFound:
		return "الربط غير موجود"
	case ErrSessionNotFound:
		return "لا توجد جلسة اليوم"

	// ─── Conflicts ─────────────────────────────────────────────────────
	case ErrConflict:
		return "تعارض مع بيانات موجودة"
	case ErrAttendanceExists:
		return "تم تسجيل الحضور مسبقًا"
	case ErrAssignmentExists:
		return "الربط موجود بالفعل"
	case ErrUsernameTaken:
		return "اسم المستخدم مستخدم بالفعل"
	case ErrDependencyExists:
		return "لا يمكن حذف المرحلة لأنها تحتوي على فصول"

	// ─── Business rules ────────────────────────────────────────────────
	case ErrNotAttendanceDay:
		return "الحضور متاح في يوم الخدمة فقط"
	case ErrSessionNotOpen:
		return "جلسة اليوم مغلقة/ملغاة"
	case ErrNoAttendanceReason:
		return "لا يوجد سبب حضور نشط (ATTENDANCE)"
	case ErrMonthlyLimitReached:
		return "تم تسجيل هذا السبب بالفعل هذا الشهر"
	case ErrInsufficientBalance:
		return "رصيد النقاط غير كافي"
	case ErrInsufficientStock:
		return "المخزون غير كافي"
	case ErrClassGenderLocked:
		return "لا يمكن تغيير نوع الفصل لأن به طلاب من نوع مختلف"
	case ErrCannotDisableSelf:
		return "لا يمكنك تعطيل حسابك"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "محاولات كثيرة، حاول بعد قليل"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "حدث خطأ"

	default:
		return "حدث خطأ غير متوقع"
	}
}
