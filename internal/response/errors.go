package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrLearnerAccessOnly ErrCode = "LEARNER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrAssessmentNotAvailable ErrCode = "ASSESSMENT_NOT_AVAILABLE"
	ErrEmptyContent           ErrCode = "EMPTY_CONTENT"
	ErrUnsupportedFormat      ErrCode = "UNSUPPORTED_FORMAT"
	ErrAttemptNotFound        ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptFinalized       ErrCode = "ATTEMPT_FINALIZED"
	ErrStepOutOfRange         ErrCode = "STEP_OUT_OF_RANGE"
	ErrStepNotVerified        ErrCode = "STEP_NOT_VERIFIED"
	ErrAttemptUntimed         ErrCode = "ATTEMPT_UNTIMED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Identifiant ou mot de passe incorrect."
	case ErrTokenRequired:
		return "Un jeton d'authentification est requis."
	case ErrTokenInvalid:
		return "Le jeton d'authentification est invalide."
	case ErrTokenExpired:
		return "Le jeton d'authentification a expiré."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Vous n'avez pas accès à cette ressource."
	case ErrLearnerAccessOnly:
		return "Cette ressource est réservée aux apprenants."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "La validation a échoué. Vérifiez votre saisie."
	case ErrInvalidID:
		return "Le format de l'identifiant est invalide."
	case ErrInvalidPayload:
		return "Le contenu de la requête est invalide."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Ressource introuvable."
	case ErrConflict:
		return "La ressource existe déjà."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrAssessmentNotAvailable:
		return "Cette évaluation n'est pas disponible actuellement."
	case ErrEmptyContent:
		return "Cette évaluation ne contient aucune étape."
	case ErrUnsupportedFormat:
		return "Ce format d'exercice n'est pas pris en charge."
	case ErrAttemptNotFound:
		return "Aucune session en cours pour cette évaluation."
	case ErrAttemptFinalized:
		return "Cette session est déjà terminée."
	case ErrStepOutOfRange:
		return "Cette étape n'existe pas."
	case ErrStepNotVerified:
		return "Validez l'étape en cours avant de continuer."
	case ErrAttemptUntimed:
		return "Cette session n'est pas chronométrée."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Une erreur interne est survenue."
	default:
		return "Une erreur inattendue est survenue."
	}
}
