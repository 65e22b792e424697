package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var french = [][2]string{
	// errors
	{"authentication required", "Non authentifié"},
	{"administrator rights required", "Droits administrateur requis"},
	{"invalid credentials", "Identifiants invalides"},
	{"session expired", "Session expirée"},
	{"account not found", "Utilisateur non trouvé"},
	{"application not found", "Formulaire non trouvé"},
	{"not found", "Ressource introuvable"},
	{"you cannot change your own role", "Vous ne pouvez pas modifier votre propre rôle"},
	{"you cannot delete your own account", "Vous ne pouvez pas supprimer votre propre compte"},
	{"email already registered", "Un compte avec cet email existe déjà"},
	{"handle already taken", "Ce pseudo Minecraft est déjà utilisé"},
	{"too many login attempts, try again later", "Trop de tentatives de connexion, réessayez plus tard"},
	{"internal server error", "Erreur interne du serveur"},
	{"invalid request body", "Corps de requête invalide"},
	{"email, password and handle are required", "Email, mot de passe et pseudo Minecraft sont requis"},
	{"invalid email address", "Adresse email invalide"},
	{"handle must be 3 to 16 letters, digits or underscores", "Pseudo Minecraft invalide. Il doit contenir entre 3 et 16 caractères alphanumériques."},
	{"password must be at least 8 characters long", "Le mot de passe doit contenir au moins 8 caractères"},
	{"password must be at most 72 bytes long", "Le mot de passe ne doit pas dépasser 72 octets"},
	{"invalid game UUID", "UUID de jeu invalide"},
	{"account no longer exists", "Ce compte n'existe plus"},
	{"password must contain a lowercase letter", "Le mot de passe doit contenir une minuscule"},
	{"password must contain an uppercase letter", "Le mot de passe doit contenir une majuscule"},
	{"password must contain a digit", "Le mot de passe doit contenir un chiffre"},
	{"password must contain a special character", "Le mot de passe doit contenir un caractère spécial"},
	{"account id and role are required", "ID utilisateur et rôle requis"},
	{"account id is required", "ID utilisateur requis"},
	{"unknown role", "Rôle inconnu"},
	{"required fields are missing", "Champs obligatoires manquants."},
	{"ages must be positive numbers", "Les âges doivent être des nombres positifs"},
	{"unknown origin", "Origine inconnue"},
	{"unknown craft", "Métier inconnu"},
	{"rules and lore must be read", "Le règlement et le lore doivent être lus"},
	{"forbidden", "Accès refusé"},
	{"method not allowed", "Méthode non autorisée"},

	// skills
	{"strength", "Force"},
	{"toughness", "Robustesse"},
	{"agility", "Agilité"},
	{"intelligence", "Intelligence"},
	{"craft", "Artisanat"},

	{"Weakness 2", "Faiblesse 2"},
	{"Weakness 1", "Faiblesse 1"},
	{"No effect", "Pas d'effet"},
	{"Strength 1", "Force 1"},
	{"7 hearts", "7 cœurs"},
	{"8 hearts", "8 cœurs"},
	{"9 hearts", "9 cœurs"},
	{"10 hearts", "10 cœurs"},
	{"11 hearts", "11 cœurs"},
	{"12 hearts", "12 cœurs"},
	{"Slowness", "Lenteur"},
	{"Speed 1", "Speed 1"},

	{"Character with cognitive difficulties", "Personnage ayant des difficultés cognitives"},
	{"Character with difficulties who can utter random words", "Personnage ayant des difficultés mais pouvant exprimer des mots aléatoires"},
	{"Has difficulties but can express themselves normally", "Ayant des difficultés mais pouvant s'exprimer normalement"},
	{"Can hold a conversation without difficulty and do modest arithmetic", "Ayant la capacité de tenir une conversation sans difficultés et de faire des calculs modestes"},
	{"Can do advanced arithmetic and read complex texts", "Capacité à effectuer des calculs avancés et à lire des textes complexes"},
	{"Character with above-average intelligence", "Personnage doté d'une intelligence supérieure à la moyenne"},
	{"The artisan has just started learning the craft", "L'artisan vient de commencer à apprendre son art"},
	{"The artisan is getting comfortable with the tools and understands the basics", "L'artisan commence à se sentir plus à l'aise avec ses outils et à comprendre les bases de son art"},
	{"The artisan has enough experience to make items of average quality", "L'artisan a acquis suffisamment d'expérience pour réaliser des objets de qualité moyenne"},
	{"The artisan masters the basic techniques and starts producing more complex items", "L'artisan maîtrise bien les techniques de base et commence à produire des objets plus complexes"},
	{"The artisan masters the basics and experiments with advanced techniques", "L'artisan maîtrise bien les techniques de base et commence à expérimenter avec des techniques plus avancées"},
	{"The artisan is renowned for their know-how and expertise", "L'artisan est reconnu pour son savoir-faire et son expertise dans son domaine"},
}

func init() {
	for _, m := range french {
		if err := message.SetString(language.French, m[0], m[1]); err != nil {
			panic(err)
		}
	}
}
