package engine

// User-facing copy, centralized for editing and future localization.

// Registration flow
const (
	msgRegisterName     = "📝 Welcome! Let's get you registered.\n\nPlease enter your full name:"
	msgRegisterRegion   = "🌍 Great! Now, which region are you from?"
	msgRegisterSchool   = "🏫 Please enter the name of your school:"
	msgRegisterClass    = "📚 Finally, what is your class/form? (e.g., Form 1, Form 2, etc.)"
	msgRegisterComplete = "✅ Registration complete! You can now upload and search for PDFs."
)

// Main menu
const (
	msgMainMenu      = "🏠 *Main Menu*\n\nWhat would you like to do?"
	msgInvalidOption = "❌ Invalid option. Please use the buttons below."

	menuUpload    = "📤 Upload PDF"
	menuSearch    = "🔍 Search PDFs"
	menuDownloads = "📚 My Downloads"
)

// Upload flow
const (
	msgUploadPrompt      = "📎 Please send me the PDF file you want to upload."
	msgUploadOnlyPDF     = "❌ Only PDF files are allowed. Please send a PDF."
	msgUploadNotExpected = "❌ You are not in upload mode. Use /start to return to menu."
	msgUploadExpectFile  = "📎 Please send a PDF file first."
	msgUploadSuccess     = "✅ PDF uploaded successfully!"
	msgUploadCancelled   = "❌ Upload cancelled."
	msgTagPrompt         = "🏷️ Select tags for this PDF. You can select multiple. Click Done when finished."
	msgTagRequired       = "⚠️ Please select at least one tag."
)

// Search flow
const (
	msgSearchUseButtons  = "🔍 Use the buttons below to select filters."
	msgSearchTagRequired = "⚠️ Please select at least one tag to search."
	msgSearchCancelled   = "❌ Search cancelled."
	msgNoResults         = "😕 No PDFs found matching your filters."
	msgResultsHeader     = "📄 *Search Results* (Page %d of %d)\n\n"
)

// Document viewing
const (
	msgDocumentDetail = "📄 *%s*\n\n🏷️ Tags: %s\n❤️ Likes: %d\n📥 Downloads: %d\n\nUse the buttons below to interact."
	msgDocNotFound    = "❌ PDF not found."
	msgLikeUpdated    = "✅ Like updated!"
	msgNoDownloads    = "📚 You haven't downloaded any PDFs yet."
	msgDownloadsHead  = "📚 *Your Downloads*\n"
)

// General
const (
	msgActionNotAllowed = "⛔ This action is not allowed right now."
	msgSessionExpired   = "⌛ Your session has expired. Please start again."
	msgViewUseButtons   = "👆 Use the buttons below to navigate."
	msgUnknownCommand   = "I don't understand that command."
	msgStoreFailure     = "⚠️ Something went wrong. Please try again."
)
